package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectKoreanPureHangul(t *testing.T) {
	assert.Equal(t, Korean, Detect("체류증을 갱신하려면 어떻게 해야 하나요"))
}

func TestDetectKoreanShortString(t *testing.T) {
	// A single Hangul syllable in a very short string decides Korean.
	assert.Equal(t, Korean, Detect("visa 갱신"))
}

func TestDetectFrenchMarkers(t *testing.T) {
	// Two marker hits, zero English hits.
	assert.Equal(t, French, Detect("renouvellement pour les etrangers"))
}

func TestDetectFrenchDiacritics(t *testing.T) {
	assert.Equal(t, French, Detect("Comment renouveler mon titre de séjour ?"))
}

func TestDetectEnglish(t *testing.T) {
	assert.Equal(t, English, Detect("How do I renew my titre de séjour?"))
}

func TestDetectTieDefaultsToFrench(t *testing.T) {
	// No markers on either side: the corpus language wins.
	assert.Equal(t, French, Detect("naturalisation 2024"))
}
