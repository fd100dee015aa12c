package handlers

import "strings"

// subcommand is the closed set of /config_omon actions.
// parseSubcommand returns exactly one of the types below.
type subcommand interface {
	isSubcommand()
}

type (
	// showUsage lists the chat's codices with full usage.
	showUsage struct{}

	// badUsage reports a known action with the wrong number of arguments.
	badUsage struct{ usage string }

	addCodex struct{ name string }

	delCodex struct{ name string }

	addArticle struct {
		codex, article, description string
	}

	delArticle struct {
		codex, article string
	}
)

func (showUsage) isSubcommand()  {}
func (badUsage) isSubcommand()   {}
func (addCodex) isSubcommand()   {}
func (delCodex) isSubcommand()   {}
func (addArticle) isSubcommand() {}
func (delArticle) isSubcommand() {}

const (
	usageAdd  = "add a codex: <b>/config_omon add <i>[codex name]</i></b>"
	usageDel  = "delete a codex: <b>/config_omon del <i>[codex name]</i></b>"
	usageAdds = "add an article: <b>/config_omon adds <i>[codex name] [article name] [description...]</i></b>"
	usageDels = "delete an article: <b>/config_omon dels <i>[codex name] [article name]</i></b>"
)

// parseSubcommand decodes tokenized /config_omon arguments.
//
// The action and its fixed arguments live on the first line. An article
// description is the rest of the first line followed by any further lines,
// so descriptions may span several lines.
func parseSubcommand(args [][]string) subcommand {
	if len(args) == 0 || len(args[0]) == 0 {
		return showUsage{}
	}

	first := args[0]
	switch first[0] {
	case "add":
		if len(first) != 2 {
			return badUsage{usageAdd}
		}
		return addCodex{name: first[1]}

	case "del":
		if len(first) != 2 {
			return badUsage{usageDel}
		}
		return delCodex{name: first[1]}

	case "adds":
		if len(first) < 4 {
			return badUsage{usageAdds}
		}
		lines := []string{strings.Join(first[3:], " ")}
		for _, line := range args[1:] {
			lines = append(lines, strings.Join(line, " "))
		}
		return addArticle{
			codex:       first[1],
			article:     first[2],
			description: strings.Join(lines, "\n"),
		}

	case "dels":
		if len(first) != 3 {
			return badUsage{usageDels}
		}
		return delArticle{codex: first[1], article: first[2]}
	}

	return showUsage{}
}
