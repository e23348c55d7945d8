package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zalint/text-corrector/internal/types"
)

func TestResolve_ExactMatchOnOriginalField(t *testing.T) {
	errs := []types.CorrectionError{
		{Type: "Conjugaison", Original: "veux", Correction: "veut"},
	}

	resolved := Resolve("Je veux manger", errs)

	require.Len(t, resolved, 1)
	assert.Equal(t, 3, resolved[0].PositionStart)
	assert.Equal(t, 7, resolved[0].PositionEnd)
}

func TestResolve_CaseInsensitiveMatch(t *testing.T) {
	errs := []types.CorrectionError{
		{Original: "BONJOUR"},
	}

	resolved := Resolve("bonjour tout le monde", errs)

	assert.Equal(t, 0, resolved[0].PositionStart)
	assert.Equal(t, 7, resolved[0].PositionEnd)
}

func TestResolve_QuotedWordInMessage(t *testing.T) {
	errs := []types.CorrectionError{
		{
			Type:    "Orthographe",
			Message: "Le mot 'manger' est mal orthographié dans ce contexte.",
		},
	}

	resolved := Resolve("Je veux manger une pomme", errs)

	assert.Equal(t, 8, resolved[0].PositionStart)
	assert.Equal(t, 14, resolved[0].PositionEnd)
}

func TestResolve_AccentFallback(t *testing.T) {
	// 'tres' in the message has no accent; the text has 'tres' too, so the
	// direct path works. 'fatigue' only matches once diacritics are
	// stripped from the text.
	original := "Il a été très fatigué"
	errs := []types.CorrectionError{
		{Message: "Le mot 'fatigue' devrait s'accorder."},
	}

	resolved := Resolve(original, errs)

	require.True(t, resolved[0].Located())
	start, end := resolved[0].PositionStart, resolved[0].PositionEnd
	assert.Equal(t, "fatigué", original[start:end])
}

func TestResolve_AccentedTokenAgainstAccentedText(t *testing.T) {
	original := "Il a été tres fatigué"
	errs := []types.CorrectionError{
		{Message: "La forme 'été' est correcte ici."},
	}

	resolved := Resolve(original, errs)

	require.True(t, resolved[0].Located())
	start, end := resolved[0].PositionStart, resolved[0].PositionEnd
	assert.Equal(t, "été", original[start:end])
}

func TestResolve_NoMatchLeavesUnlocated(t *testing.T) {
	errs := []types.CorrectionError{
		{Type: "Ponctuation", Message: "Une virgule manque."},
	}

	resolved := Resolve("xyz", errs)

	assert.Equal(t, 0, resolved[0].PositionStart)
	assert.Equal(t, 0, resolved[0].PositionEnd)
	assert.False(t, resolved[0].Located())
}

func TestResolve_EmptyOriginalFieldFallsThroughToMessage(t *testing.T) {
	errs := []types.CorrectionError{
		{Original: "   ", Message: `Il faut utiliser 'teste' au lieu de la forme actuelle.`},
	}

	resolved := Resolve("Je teste le code", errs)

	assert.Equal(t, 3, resolved[0].PositionStart)
	assert.Equal(t, 8, resolved[0].PositionEnd)
}

func TestResolve_PreservesErrorFields(t *testing.T) {
	errs := []types.CorrectionError{
		{Type: "Grammaire", Message: "msg", Severity: types.SeveritySevere, Original: "veux"},
	}

	resolved := Resolve("Je veux", errs)

	assert.Equal(t, "Grammaire", resolved[0].Type)
	assert.Equal(t, types.SeveritySevere, resolved[0].Severity)
	assert.Equal(t, "veux", resolved[0].Original)
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	errs := []types.CorrectionError{{Original: "veux"}}

	Resolve("Je veux", errs)

	assert.Zero(t, errs[0].PositionStart)
	assert.Zero(t, errs[0].PositionEnd)
}
