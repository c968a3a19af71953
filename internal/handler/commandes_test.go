package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSansAccents(t *testing.T) {
	// The plain filename= fallback must be ASCII; the accented form travels
	// in filename* only.
	assert.Equal(t,
		"22-104-Betonniere Gelinas-PO-000-001.pdf",
		sansAccents("22-104-Bétonnière Gélinas-PO-000-001.pdf"))
	assert.Equal(t, "creme brulee a l'erable", sansAccents("crème brûlée à l'érable"))
	assert.Equal(t, "deja ascii", sansAccents("deja ascii"))
}
