package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const promoHTML = `
<html><head><title>ignored title</title><style>p { color: red }</style></head>
<body>
  <h1>WIN a FREE prize</h1>
  <p>Claim your <b>cash</b> now!</p>
  <script>track()</script>
  <img src="x.png" alt="Exclusive offer">
  <ul><li>one</li><li>two</li></ul>
</body></html>`

func TestTextFromHTML(t *testing.T) {
	text, err := TextFromHTML(promoHTML)
	require.NoError(t, err)

	assert.Contains(t, text, "WIN a FREE prize")
	assert.Contains(t, text, "Claim your cash now!")
	assert.Contains(t, text, "Exclusive offer")
	assert.Contains(t, text, "one two")
	assert.NotContains(t, text, "track()")
	assert.NotContains(t, text, "color")
	assert.NotContains(t, text, "ignored title")
	assert.NotContains(t, text, "  ")
}

func TestTextFromHTMLPlainText(t *testing.T) {
	text, err := TextFromHTML("just a plain message")
	require.NoError(t, err)
	assert.Equal(t, "just a plain message", text)
}
