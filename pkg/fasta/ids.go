package fasta

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/internal/util"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/model"
)

// ReadIDs returns the identifiers (first word of every header) in a FASTA stream.
// Residues are not checked, text before the first header is ignored.
func ReadIDs(r io.Reader) (model.GeneSet, error) {
	ids := model.NewGeneSet()

	br, err := skipToHeader(r)
	if err != nil {
		return nil, err
	}

	template := linear.NewSeq("", nil, alphabet.Protein)
	sc := seqio.NewScanner(fasta.NewReader(br, template))
	for sc.Next() {
		// biogo only splits the header on spaces
		name := sc.Seq().Name()
		if i := strings.IndexAny(name, "\t\v\f"); i >= 0 {
			name = name[:i]
		}
		if name != "" {
			ids.Add(name)
		}
	}

	if err := sc.Error(); err != nil {
		return nil, err
	}
	return ids, nil
}

// skipToHeader drops the lines before the first one starting with '>'.
func skipToHeader(r io.Reader) (*bufio.Reader, error) {
	br := bufio.NewReader(r)
	for {
		b, err := br.Peek(1)
		if err == io.EOF {
			return br, nil
		}
		if err != nil {
			return nil, err
		}
		if b[0] == '>' {
			return br, nil
		}
		if _, err := br.ReadString('\n'); err == io.EOF {
			return br, nil
		} else if err != nil {
			return nil, err
		}
	}
}

// ReadIDsFile is ReadIDs on a (possibly gzipped) file.
func ReadIDsFile(path string) (model.GeneSet, error) {
	in, err := util.OpenInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	ids, err := ReadIDs(in)
	if err != nil {
		return nil, fmt.Errorf("read ids from %s: %w", path, err)
	}
	return ids, nil
}
