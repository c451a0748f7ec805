package fasta

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/model"
)

func TestReadIDs(t *testing.T) {
	in := `>XP_001.1 protein kinase [Chelidonium majus]
MKVLAAGIVGLLLA
QQRS
>XP_002.1
MSTNPKPQ
>XP_001.1 duplicate header
MK
`
	ids, err := ReadIDs(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, model.NewGeneSet("XP_001.1", "XP_002.1"), ids)
}

func TestReadIDsEmpty(t *testing.T) {
	ids, err := ReadIDs(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReadIDsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "OG0000001.fa")
	require.NoError(t, os.WriteFile(path, []byte(">g1 x\nAC\n>g2\nGT\n"), 0o644))

	ids, err := ReadIDsFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "g2"}, ids.Sorted())

	_, err = ReadIDsFile(filepath.Join(t.TempDir(), "missing.fa"))
	assert.Error(t, err)
}

func TestReadIDsLeadingText(t *testing.T) {
	in := "some note\n\n;comment\n>g1 first\nMK\n>g2\nMK\n"
	ids, err := ReadIDs(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "g2"}, ids.Sorted())

	ids, err = ReadIDs(strings.NewReader("only a note"))
	require.NoError(t, err)
	assert.Empty(t, ids)
}
