// Package numero formats and increments the human-readable identifiers used
// for demandes d'achat (PR-000-NNN) and bons de commande (PO-NNN-NNN, plus
// -Rn revision suffixes).
package numero

import (
	"fmt"
	"regexp"
	"strconv"
)

const (
	PrefixeDemande  = "PR"
	PrefixeCommande = "PO"
)

// groupe2 runs 001..999 then carries into groupe1.
const parGroupe = 999

var motif = regexp.MustCompile(`^(PR|PO)-(\d{3})-(\d{3})$`)

var motifRevision = regexp.MustCompile(`^(.*-R)(\d+)$`)

// Format maps the nth issued number (1-based) to its fixed-width form:
// 1 → XX-000-001, 999 → XX-000-999, 1000 → XX-001-001.
func Format(prefixe string, n int64) string {
	if n < 1 {
		n = 1
	}
	g1 := (n - 1) / parGroupe
	g2 := (n-1)%parGroupe + 1
	return fmt.Sprintf("%s-%03d-%03d", prefixe, g1, g2)
}

// Rang is the inverse of Format: the 1-based issue rank of a well-formed
// number. ok is false when s does not match the strict pattern.
func Rang(s string) (int64, bool) {
	m := motif.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	g1, _ := strconv.ParseInt(m[2], 10, 64)
	g2, _ := strconv.ParseInt(m[3], 10, 64)
	if g2 < 1 || g2 > parGroupe {
		return 0, false
	}
	return g1*parGroupe + g2, true
}

// Depuis derives the next number from the lexicographically-last issued one.
// An empty or malformed dernier falls back to the sequence's first value.
// Legacy path: production allocation goes through a Postgres sequence and
// Format; this is kept for databases created before the sequence migration.
func Depuis(prefixe, dernier string) string {
	n, ok := Rang(dernier)
	if !ok {
		return Format(prefixe, 1)
	}
	return Format(prefixe, n+1)
}

// Revision mints the revision-suffixed number for a reissued bon de
// commande: PO-005-002 → PO-005-002-R1, PO-005-002-R1 → PO-005-002-R2.
func Revision(s string) string {
	if m := motifRevision.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[2])
		return m[1] + strconv.Itoa(n+1)
	}
	return s + "-R1"
}
