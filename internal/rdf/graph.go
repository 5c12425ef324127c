package rdf

import (
	"fmt"
	"sort"
	"strings"
)

// Term is a node in a triple: an IRI, a blank node, or a literal.
type Term struct {
	value   string
	kind    termKind
	lang    string
	dataIRI string
}

type termKind int

const (
	termIRI termKind = iota
	termBlank
	termLiteral
)

// IRI returns an IRI term.
func IRI(v string) Term { return Term{value: v, kind: termIRI} }

// Blank returns a blank node term with the given label.
func Blank(label string) Term { return Term{value: label, kind: termBlank} }

// Literal returns a plain string literal.
func Literal(v string) Term { return Term{value: v, kind: termLiteral} }

// TypedLiteral returns a literal with an explicit datatype IRI.
func TypedLiteral(v, datatype string) Term {
	return Term{value: v, kind: termLiteral, dataIRI: datatype}
}

type triple struct {
	s, p, o Term
}

// Graph accumulates triples and serialises them as Turtle. Insertion
// order of subjects is preserved so documents are stable.
type Graph struct {
	prefixes map[string]string // prefix -> namespace
	order    []string
	triples  []triple
	blankSeq int
}

// NewGraph returns an empty graph with no prefixes bound.
func NewGraph() *Graph {
	return &Graph{prefixes: make(map[string]string)}
}

// Bind registers a prefix for a namespace. Prefixes are emitted in the
// order they were bound.
func (g *Graph) Bind(prefix, ns string) {
	if _, ok := g.prefixes[prefix]; !ok {
		g.order = append(g.order, prefix)
	}
	g.prefixes[prefix] = ns
}

// Add appends a triple.
func (g *Graph) Add(s, p, o Term) {
	g.triples = append(g.triples, triple{s, p, o})
}

// NewBlank returns a fresh blank node unique within this graph.
func (g *Graph) NewBlank() Term {
	g.blankSeq++
	return Blank(fmt.Sprintf("b%d", g.blankSeq))
}

// Turtle serialises the graph. Triples are grouped by subject in first
// insertion order, predicates within a subject in first insertion
// order, using bound prefixes where they apply.
func (g *Graph) Turtle() string {
	var b strings.Builder

	for _, p := range g.order {
		fmt.Fprintf(&b, "@prefix %s: <%s> .\n", p, g.prefixes[p])
	}
	if len(g.order) > 0 && len(g.triples) > 0 {
		b.WriteByte('\n')
	}

	subjects, bySubject := g.groupBySubject()
	for i, s := range subjects {
		if i > 0 {
			b.WriteByte('\n')
		}
		g.writeSubject(&b, s, bySubject[s])
	}
	return b.String()
}

func (g *Graph) groupBySubject() ([]Term, map[Term][]triple) {
	var subjects []Term
	grouped := make(map[Term][]triple)
	for _, t := range g.triples {
		if _, ok := grouped[t.s]; !ok {
			subjects = append(subjects, t.s)
		}
		grouped[t.s] = append(grouped[t.s], t)
	}
	return subjects, grouped
}

func (g *Graph) writeSubject(b *strings.Builder, s Term, ts []triple) {
	b.WriteString(g.renderTerm(s))
	b.WriteByte(' ')

	// Group objects under repeated predicates.
	var preds []Term
	objs := make(map[Term][]Term)
	for _, t := range ts {
		if _, ok := objs[t.p]; !ok {
			preds = append(preds, t.p)
		}
		objs[t.p] = append(objs[t.p], t.o)
	}

	for i, p := range preds {
		if i > 0 {
			b.WriteString(" ;\n    ")
		}
		b.WriteString(g.renderPredicate(p))
		for j, o := range objs[p] {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte(' ')
			b.WriteString(g.renderTerm(o))
		}
	}
	b.WriteString(" .\n")
}

func (g *Graph) renderPredicate(p Term) string {
	if p.kind == termIRI && p.value == TypeRDF {
		return "a"
	}
	return g.renderTerm(p)
}

func (g *Graph) renderTerm(t Term) string {
	switch t.kind {
	case termBlank:
		return "_:" + t.value
	case termLiteral:
		lit := `"` + escapeLiteral(t.value) + `"`
		if t.dataIRI != "" && t.dataIRI != NSXSD+"string" {
			return lit + "^^" + g.compact(t.dataIRI)
		}
		return lit
	default:
		return g.compact(t.value)
	}
}

// compact rewrites an IRI using the longest matching bound namespace,
// falling back to the <...> form.
func (g *Graph) compact(iri string) string {
	best, bestNS := "", ""
	for _, p := range g.order {
		ns := g.prefixes[p]
		if strings.HasPrefix(iri, ns) && len(ns) > len(bestNS) {
			best, bestNS = p, ns
		}
	}
	if bestNS != "" {
		local := iri[len(bestNS):]
		if isLocalName(local) {
			return best + ":" + local
		}
	}
	return "<" + iri + ">"
}

// isLocalName reports whether a suffix is safe to emit as a prefixed
// local part without escaping.
func isLocalName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.':
		default:
			return false
		}
	}
	// A trailing dot terminates a statement in Turtle.
	return !strings.HasSuffix(s, ".")
}

func escapeLiteral(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return r.Replace(s)
}

// SortedKeys is a small helper for callers that build graphs from maps
// and need deterministic subject order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
