// Package args turns the raw token list of a k invocation into a resolved
// intent. Tokens may arrive in any order: flags are consumed eagerly in a
// single left-to-right pass and whatever remains is interpreted by the
// free-token count, so `k web -n prod --summary` and `k --summary -n prod web`
// resolve identically.
package args

import (
	"fmt"
	"regexp"

	"github.com/ppiankov/ktool/internal/config"
)

// KeywordPods is the optional leading keyword. It is a pure no-op marker:
// `k pods web` and `k web` mean the same thing.
const KeywordPods = "pods"

// Error reports a token that could not be interpreted.
type Error struct {
	Token  string
	Reason string
}

func (e *Error) Error() string {
	if e.Token == "" {
		return e.Reason
	}
	return fmt.Sprintf("argument %q: %s", e.Token, e.Reason)
}

// Intent is the validated outcome of parsing a k invocation.
type Intent struct {
	Namespace   string         // always populated, from -n/--ns or the config default
	Service     string         // alias-expanded service filter, empty means none
	Search      *regexp.Regexp // compiled -s/--search pattern, nil means none
	SearchRaw   string         // the pattern as given, for command echo and messages
	Summary     bool
	BadOnly     bool
	ShowCommand bool
}

// Resolve parses tokens against cfg in one pass with no backtracking.
//
// Flag spellings are consumed where they appear (value flags swallow the next
// token); everything else is collected as a free token. Zero free tokens mean
// no service filter, one is either the pods keyword or a service name, two
// must be `pods <service>`. More than two, a value flag with no value, or an
// uncompilable search pattern are all errors.
func Resolve(tokens []string, cfg *config.Config) (*Intent, error) {
	var (
		free      []string
		namespace string
		searchRaw string
		hasSearch bool
		intent    = &Intent{}
	)

	for i := 0; i < len(tokens); i++ {
		switch tok := tokens[i]; tok {
		case "--summary":
			intent.Summary = true
		case "--bad":
			intent.BadOnly = true
		case "--show-command", "--showCommand":
			intent.ShowCommand = true
		case "-n", "--ns":
			if i+1 >= len(tokens) {
				return nil, &Error{Token: tok, Reason: "missing namespace value"}
			}
			i++
			namespace = tokens[i]
		case "-s", "--search":
			if i+1 >= len(tokens) {
				return nil, &Error{Token: tok, Reason: "missing search pattern"}
			}
			i++
			searchRaw = tokens[i]
			hasSearch = true
		default:
			// Anything that is not a recognized flag spelling is a free
			// token, dashes included.
			free = append(free, tok)
		}
	}

	var service string
	switch len(free) {
	case 0:
	case 1:
		if free[0] != KeywordPods {
			service = free[0]
		}
	case 2:
		if free[0] != KeywordPods {
			return nil, &Error{
				Token:  free[1],
				Reason: fmt.Sprintf("unexpected extra argument (two positionals are only valid as %q followed by a service)", KeywordPods),
			}
		}
		service = free[1]
	default:
		return nil, &Error{Token: free[2], Reason: "too many arguments"}
	}

	if service != "" {
		if mapped, ok := cfg.Services[service]; ok {
			service = mapped
		}
		intent.Service = service
	}

	intent.Namespace = cfg.DefaultNamespace
	if namespace != "" {
		intent.Namespace = namespace
	}

	if hasSearch {
		re, err := regexp.Compile(searchRaw)
		if err != nil {
			return nil, &Error{Token: searchRaw, Reason: fmt.Sprintf("invalid search pattern: %v", err)}
		}
		intent.Search = re
		intent.SearchRaw = searchRaw
	}

	return intent, nil
}
