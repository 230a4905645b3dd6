package retrieval

import "github.com/poiesic/studykit/core"

// AskMonitor provides hooks to observe the answer process.
// Implement this interface to track intermediate steps during a question.
type AskMonitor interface {
	Start(question string)
	AfterSimilaritySearch(matches []*core.MatchedChunk)
	FallbackUsed(chunkCount int)
	AfterHistoryLoad(turns []*core.ConversationTurn)
	Finish(answer string)
}

// noopMonitor is a no-op implementation of AskMonitor
type noopMonitor struct{}

var _ AskMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                              {}
func (n *noopMonitor) AfterSimilaritySearch(_ []*core.MatchedChunk) {}
func (n *noopMonitor) FallbackUsed(_ int)                          {}
func (n *noopMonitor) AfterHistoryLoad(_ []*core.ConversationTurn) {}
func (n *noopMonitor) Finish(_ string)                             {}
