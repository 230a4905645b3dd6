package core

import (
	"errors"
	"testing"
)

func TestValidateMaterial(t *testing.T) {
	tests := []struct {
		name     string
		material *Material
		wantErr  error
	}{
		{
			name: "valid document material",
			material: &Material{
				Owner:      "user-1",
				SourceKind: SourceKindDocument,
				SourceRef:  "uploads/lecture.txt",
			},
			wantErr: nil,
		},
		{
			name: "valid transcript material",
			material: &Material{
				Owner:      "user-1",
				SourceKind: SourceKindTranscript,
				SourceRef:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			},
			wantErr: nil,
		},
		{
			name:     "nil material",
			material: nil,
			wantErr:  ErrInvalidMaterial,
		},
		{
			name: "empty owner",
			material: &Material{
				SourceKind: SourceKindDocument,
				SourceRef:  "uploads/a.txt",
			},
			wantErr: ErrEmptyOwner,
		},
		{
			name: "invalid source kind",
			material: &Material{
				Owner:     "user-1",
				SourceRef: "uploads/a.txt",
			},
			wantErr: ErrInvalidSourceKind,
		},
		{
			name: "empty source ref",
			material: &Material{
				Owner:      "user-1",
				SourceKind: SourceKindDocument,
			},
			wantErr: ErrEmptySourceRef,
		},
		{
			name: "progress out of range",
			material: &Material{
				Owner:      "user-1",
				SourceKind: SourceKindDocument,
				SourceRef:  "uploads/a.txt",
				Progress:   101,
			},
			wantErr: ErrInvalidProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMaterial(tt.material)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateTurn(t *testing.T) {
	tests := []struct {
		name    string
		turn    *ConversationTurn
		wantErr error
	}{
		{
			name:    "valid user turn",
			turn:    &ConversationTurn{MaterialId: 1, Role: TurnRoleUser, Content: "What is X?"},
			wantErr: nil,
		},
		{
			name:    "valid assistant turn",
			turn:    &ConversationTurn{MaterialId: 1, Role: TurnRoleAssistant, Content: "X is..."},
			wantErr: nil,
		},
		{
			name:    "empty content",
			turn:    &ConversationTurn{MaterialId: 1, Role: TurnRoleUser},
			wantErr: ErrEmptyContent,
		},
		{
			name:    "invalid role",
			turn:    &ConversationTurn{MaterialId: 1, Role: 0, Content: "hi"},
			wantErr: ErrInvalidTurnRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTurn(tt.turn)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestIDFromContentDeterministic(t *testing.T) {
	a := IDFromContent("same content")
	b := IDFromContent("same content")
	c := IDFromContent("different content")

	if a != b {
		t.Fatalf("identical content produced different IDs: %d vs %d", a, b)
	}
	if a == c {
		t.Fatalf("different content produced identical IDs: %d", a)
	}
}
