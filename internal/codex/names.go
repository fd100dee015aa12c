package codex

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// rules is the compiled form of NamingConfig.
type rules struct {
	global  string
	codex   *regexp.Regexp
	article *regexp.Regexp
	maxDesc int
}

func compileRules(cfg NamingConfig) (rules, error) {
	def := DefaultConfig().Naming

	r := rules{
		global:  norm.NFC.String(strings.TrimSpace(cfg.GlobalName)),
		maxDesc: cfg.MaxDescriptionLen,
	}
	if r.global == "" {
		r.global = def.GlobalName
	}
	if r.maxDesc <= 0 {
		r.maxDesc = def.MaxDescriptionLen
	}

	var err error
	if r.codex, err = compileFull(cfg.CodexPattern, def.CodexPattern); err != nil {
		return rules{}, fmt.Errorf("codex name pattern: %w", err)
	}
	if r.article, err = compileFull(cfg.ArticlePattern, def.ArticlePattern); err != nil {
		return rules{}, fmt.Errorf("article name pattern: %w", err)
	}
	return r, nil
}

func compileFull(expr, fallback string) (*regexp.Regexp, error) {
	if strings.TrimSpace(expr) == "" {
		expr = fallback
	}
	return regexp.Compile(`^(?:` + expr + `)$`)
}

// codexName normalizes and validates a chat codex name.
// The reserved global name is always rejected.
func (r rules) codexName(op, name string) (string, error) {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return "", newError(ErrCodeInvalidArgument, op, "codex name is empty")
	}
	if name == r.global {
		return "", newError(ErrCodeInvalidArgument, op, "codex name %q is reserved", name)
	}
	if !r.codex.MatchString(name) {
		return "", newError(ErrCodeInvalidArgument, op, "codex name %q must match %s", name, r.codex)
	}
	return name, nil
}

func (r rules) articleName(op, name string) (string, error) {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return "", newError(ErrCodeInvalidArgument, op, "article name is empty")
	}
	if !r.article.MatchString(name) {
		return "", newError(ErrCodeInvalidArgument, op, "article name %q must match %s", name, r.article)
	}
	return name, nil
}

func (r rules) description(op, desc string) (string, error) {
	desc = norm.NFC.String(strings.TrimSpace(desc))
	if desc == "" {
		return "", newError(ErrCodeInvalidArgument, op, "article description is empty")
	}
	if n := utf8.RuneCountInString(desc); n > r.maxDesc {
		return "", newError(ErrCodeInvalidArgument, op, "article description is %d characters, limit is %d", n, r.maxDesc)
	}
	return desc, nil
}
