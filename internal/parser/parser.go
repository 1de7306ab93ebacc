// Package parser classifies commit messages in the conventional-commit
// format and extracts co-author trailers and phase references.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Yates-Labs/crumbs/internal/model"
)

var (
	// type(scope): subject, evaluated against the first line only
	conventionalPattern = regexp.MustCompile(`(?i)^([a-z]+)(?:\(([^)]+)\))?:\s*(.+)$`)

	coAuthorPattern = regexp.MustCompile(`(?im)^Co-Authored-By:\s*(.+)$`)

	phasePattern = regexp.MustCompile(`(?i)Phase\s+(\d+)`)
)

// ParsedMessage is the structured form of a commit message
type ParsedMessage struct {
	Type           model.CommitType
	Scope          *string
	Subject        string
	Body           *string
	IsConventional bool
}

// Parser recognizes a fixed set of conventional types
type Parser struct {
	types map[model.CommitType]bool
}

// New creates a parser for the given conventional types.
// An empty list falls back to the eleven standard types.
func New(types []model.CommitType) *Parser {
	if len(types) == 0 {
		types = model.ConventionalTypes()
	}
	p := &Parser{types: make(map[model.CommitType]bool, len(types))}
	for _, t := range types {
		p.types[t] = true
	}
	return p
}

// Default creates a parser for the eleven standard types
func Default() *Parser {
	return New(nil)
}

// Parse splits a message into type, scope, subject and body.
// Empty or whitespace-only input yields the zero classification.
func (p *Parser) Parse(message string) ParsedMessage {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return ParsedMessage{Type: model.TypeUnknown}
	}

	lines := strings.Split(trimmed, "\n")
	firstLine := strings.TrimSpace(lines[0])

	parsed := ParsedMessage{
		Type:    model.TypeUnknown,
		Subject: firstLine,
	}

	if m := conventionalPattern.FindStringSubmatch(firstLine); m != nil {
		if ct, ok := model.ParseCommitType(m[1]); ok && p.types[ct] {
			parsed.Type = ct
			parsed.IsConventional = true
		}
		if m[2] != "" {
			scope := m[2]
			parsed.Scope = &scope
		}
		parsed.Subject = strings.TrimSpace(m[3])
	}

	parsed.Body = extractBody(lines[1:])
	return parsed
}

// extractBody skips leading blank lines, stops at the first co-author
// trailer and drops trailing blank lines.
func extractBody(lines []string) *string {
	var body []string
	started := false
	for _, line := range lines {
		if !started && strings.TrimSpace(line) == "" {
			continue
		}
		if coAuthorPattern.MatchString(line) {
			break
		}
		started = true
		body = append(body, line)
	}

	for len(body) > 0 && strings.TrimSpace(body[len(body)-1]) == "" {
		body = body[:len(body)-1]
	}
	if len(body) == 0 {
		return nil
	}

	joined := strings.Join(body, "\n")
	return &joined
}

// ExtractCoAuthors returns every Co-Authored-By trailer value in order
func (p *Parser) ExtractCoAuthors(message string) []string {
	matches := coAuthorPattern.FindAllStringSubmatch(message, -1)
	coAuthors := make([]string, 0, len(matches))
	for _, m := range matches {
		coAuthors = append(coAuthors, strings.TrimSpace(m[1]))
	}
	return coAuthors
}

// DetectPhase returns the number of the first "Phase N" reference anywhere
// in the message, or nil if there is none.
func (p *Parser) DetectPhase(message string) *int {
	m := phasePattern.FindStringSubmatch(message)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// Apply attaches every parsed field to the commit
func (p *Parser) Apply(c *model.Commit) {
	parsed := p.Parse(c.Message)

	subject := parsed.Subject
	c.Type = parsed.Type
	c.Scope = parsed.Scope
	c.Subject = &subject
	c.Body = parsed.Body
	c.IsConventional = parsed.IsConventional
	c.CoAuthors = p.ExtractCoAuthors(c.Message)
	c.Phase = p.DetectPhase(c.Message)
}
