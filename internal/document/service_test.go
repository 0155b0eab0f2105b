package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderAnswerHTML(t *testing.T) {
	s := NewService()

	out, err := s.RenderAnswerHTML("**Noir Essence**\n\n- Bergamot\n- Pink Pepper")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>Noir Essence</strong>")
	assert.Contains(t, out, "<li>Bergamot</li>")
}

func TestRenderAnswerHTML_HardWraps(t *testing.T) {
	out, err := NewService().RenderAnswerHTML("Top notes\nMiddle notes")
	require.NoError(t, err)
	assert.Contains(t, out, "<br>")
}

func TestRenderAnswerHTML_DropsRawHTML(t *testing.T) {
	out, err := NewService().RenderAnswerHTML("Hello <script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}

func TestRenderAnswerHTML_Empty(t *testing.T) {
	out, err := GetService().RenderAnswerHTML("   ")
	require.NoError(t, err)
	assert.Empty(t, out)
}
