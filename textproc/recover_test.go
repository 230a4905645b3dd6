package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

// mojibakeLatin1 encodes utf8 text with the given code page and reinterprets
// the raw bytes as Latin-1, reproducing the classic double-decode corruption.
func mojibakeLatin1(t *testing.T, page *charmap.Charmap, text string) string {
	t.Helper()
	raw, err := page.NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes)
}

func TestRecoverCleanTextUnchanged(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"ascii", "Hello world, plain prose."},
		{"cyrillic", "Привет мир, обычный текст."},
		{"mixed", "The word Привет means hello."},
		{"greek", "Η ταχεία καφέ αλεπού πηδά πάνω από τον τεμπέλη σκύλο."},
		{"cjk", "这是一段完全正确的中文文本，不需要任何修复。"},
		{"japanese", "これは正しくデコードされた日本語の文章です。"},
		{"mixed scripts", "Die Übung covers το μάθημα in detail."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, status := Recover(tt.in)
			assert.Equal(t, tt.in, got)
			assert.Equal(t, RecoveryUnchanged, status)
		})
	}
}

func TestRecoverRepairsMojibake(t *testing.T) {
	original := "Привет мир. Это учебный текст про подготовку к экзамену, " +
		"он достаточно длинный для уверенного решения."

	tests := []struct {
		name string
		page *charmap.Charmap
	}{
		{"windows1251", charmap.Windows1251},
		{"koi8r", charmap.KOI8R},
		{"cp866", charmap.CodePage866},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corrupted := mojibakeLatin1(t, tt.page, original)
			require.NotEqual(t, original, corrupted)

			got, status := Recover(corrupted)
			assert.Equal(t, RecoveryApplied, status)
			assert.Equal(t, original, got)
		})
	}
}

func TestRecoverRepairsWindows1252Decode(t *testing.T) {
	// Lowercase Cyrillic occupies byte positions that Windows-1252 also
	// defines, which is the variant this strategy targets.
	original := "привет мир это длинная строка про учебники и конспекты"

	raw, err := charmap.Windows1251.NewEncoder().Bytes([]byte(original))
	require.NoError(t, err)
	corrupted, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	require.NoError(t, err)
	require.NotEqual(t, original, string(corrupted))

	got, status := Recover(string(corrupted))
	assert.Equal(t, RecoveryApplied, status)
	assert.Equal(t, original, got)
}

func TestRecoverLowConfidence(t *testing.T) {
	// Accented Latin text decodes to a few stray Cyrillic runes at best,
	// which stays below the acceptance bar.
	in := "café résumé naïveté, voilà un texte français ordinaire"
	_, status := Recover(in)
	assert.Equal(t, RecoveryLowConfidence, status)
}

func TestRecoveryStatusString(t *testing.T) {
	assert.Equal(t, "unchanged", RecoveryUnchanged.String())
	assert.Equal(t, "applied", RecoveryApplied.String())
	assert.Equal(t, "low_confidence", RecoveryLowConfidence.String())
	assert.Equal(t, "failed", RecoveryFailed.String())
}
