/*
Copyright 2018 Corentin Chary

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

/*
	Utils for converting graphite glob patterns to something golang understands

	http://graphite.readthedocs.io/en/latest/render_api.html#paths-and-wildcards

	* -> any run w/in a path component
	** -> any run across components
	? -> single char
	[a-z] / [!a-z] -> char select
	{moo,goo} -> alternates
*/

package indexer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/iksaif/graphite-datadog/server/schemas/repr"
)

// need regex?
func needRegex(metric string) bool {
	return strings.IndexAny(metric, "(|*?[{^$") >= 0
}

// isGraphiteGlob does this single path component carry glob chars
func isGraphiteGlob(component string) bool {
	return strings.IndexAny(component, "*?{}[]") >= 0
}

// validGlob make sure grouping braces balance and no path separator
// sits inside a group, saves useless (or worse, wrong) trips to the api
func validGlob(glob string) bool {
	depth := 0
	for _, c := range glob {
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				// mismatched braces
				return false
			}
		case '.':
			if depth > 0 {
				// component separator in the middle of a group
				return false
			}
		}
	}
	return depth == 0
}

type tokenType int

const (
	tokenPathSep tokenType = iota
	tokenLiteral
	tokenWildChar
	tokenWildSeq
	tokenWildPath
	tokenCharSelBegin
	tokenCharSelNegBegin
	tokenCharSelDash
	tokenCharSelEnd
	tokenExprSelBegin
	tokenExprSelSep
	tokenExprSelEnd
)

type globToken struct {
	typ  tokenType
	data string
}

const globSpecialChars = ".?*[-]{,}"

// tokenize chop a glob into a token stream, `\` escapes, `-` is only
// special inside a char select
func tokenize(glob string) []globToken {
	var out []globToken
	var lit strings.Builder

	flushLit := func() {
		if lit.Len() > 0 {
			out = append(out, globToken{tokenLiteral, lit.String()})
			lit.Reset()
		}
	}

	isEscaped := false
	inCharSel := false
	runes := []rune(glob)

	for i := 0; i < len(runes); i++ {
		c := runes[i]

		if isEscaped {
			lit.WriteRune(c)
			isEscaped = false
			continue
		}
		if c == '\\' {
			isEscaped = true
			continue
		}
		if !strings.ContainsRune(globSpecialChars, c) || (c == '-' && !inCharSel) {
			lit.WriteRune(c)
			continue
		}
		flushLit()

		switch c {
		case '.':
			out = append(out, globToken{tokenPathSep, ""})
		case '?':
			out = append(out, globToken{tokenWildChar, ""})
		case '*':
			// look-ahead for a globstar
			if i+1 < len(runes) && runes[i+1] == '*' {
				i++
				out = append(out, globToken{tokenWildPath, ""})
			} else {
				out = append(out, globToken{tokenWildSeq, ""})
			}
		case '[':
			inCharSel = true
			// look-ahead for a negated selector
			if i+1 < len(runes) && runes[i+1] == '!' {
				i++
				out = append(out, globToken{tokenCharSelNegBegin, ""})
			} else {
				out = append(out, globToken{tokenCharSelBegin, ""})
			}
		case '-':
			out = append(out, globToken{tokenCharSelDash, ""})
		case ']':
			inCharSel = false
			out = append(out, globToken{tokenCharSelEnd, ""})
		case '{':
			out = append(out, globToken{tokenExprSelBegin, ""})
		case ',':
			out = append(out, globToken{tokenExprSelSep, ""})
		case '}':
			out = append(out, globToken{tokenExprSelEnd, ""})
		}
	}
	flushLit()
	return out
}

// globToRegexString the glob as an anchored regex, it handles `*` as
// anything except a dot, check validGlob first if you want usable output
func globToRegexString(glob string) string {
	var ans strings.Builder
	ans.WriteString("^")
	for _, tok := range tokenize(glob) {
		switch tok.typ {
		case tokenPathSep:
			ans.WriteString(`\.`)
		case tokenLiteral:
			ans.WriteString(regexp.QuoteMeta(tok.data))
		case tokenWildChar:
			ans.WriteString(".")
		case tokenWildSeq:
			ans.WriteString("[^.]*")
		case tokenWildPath:
			ans.WriteString(".*")
		case tokenCharSelBegin:
			ans.WriteString("[")
		case tokenCharSelNegBegin:
			ans.WriteString("[^")
		case tokenCharSelDash:
			ans.WriteString("-")
		case tokenCharSelEnd:
			ans.WriteString("]")
		case tokenExprSelBegin:
			ans.WriteString("(")
		case tokenExprSelSep:
			ans.WriteString("|")
		case tokenExprSelEnd:
			ans.WriteString(")")
		}
	}
	ans.WriteString("$")
	return ans.String()
}

// regifyGlob compile the glob into a usable matcher
func regifyGlob(glob string) (*regexp.Regexp, error) {
	if !validGlob(glob) {
		return nil, fmt.Errorf("invalid glob pattern `%s`", glob)
	}
	return regexp.Compile(globToRegexString(glob))
}

// globFilter names that may be matched by the glob, uses the dot-count
// and literal components as a cheap prefilter then the real regex
func globFilter(names []string, glob string) ([]string, error) {
	reged, err := regifyGlob(glob)
	if err != nil {
		return nil, err
	}

	globComponents := strings.Split(glob, ".")

	type literalAt struct {
		index int
		value string
	}

	globstar := -1
	var prefixLiterals []literalAt
	var suffixLiterals []literalAt // indexed back from the end
	for index, component := range globComponents {
		switch {
		case component == "**":
			globstar = index
		case globstar >= 0:
			suffixLiterals = append(suffixLiterals, literalAt{len(globComponents) - index, component})
		case !isGraphiteGlob(component):
			prefixLiterals = append(prefixLiterals, literalAt{index, component})
		}
	}

	maybeMatched := func(name string) bool {
		nameComponents := strings.Split(name, ".")
		if globstar >= 0 {
			if len(nameComponents) < len(globComponents) {
				return false
			}
		} else if len(nameComponents) != len(globComponents) {
			return false
		}

		for _, lit := range prefixLiterals {
			if nameComponents[lit.index] != lit.value {
				return false
			}
		}
		for _, lit := range suffixLiterals {
			comp := nameComponents[len(nameComponents)-lit.index]
			if isGraphiteGlob(lit.value) {
				continue
			}
			if comp != lit.value {
				return false
			}
		}
		return true
	}

	var out []string
	for _, name := range names {
		if !maybeMatched(name) {
			continue
		}
		if reged.MatchString(name) {
			out = append(out, name)
		}
	}
	return out, nil
}

// firstNonGlobSegment in a path like moo.goo.* find the initial run of
// components w/o any glob chars, handy as a server-side search hint
func firstNonGlobSegment(name string) string {
	spl := strings.Split(name, ".")
	outStr := []string{}
	for _, s := range spl {
		if needRegex(s) {
			break
		}
		outStr = append(outStr, s)
	}
	return strings.Join(outStr, ".")
}

// splitMetricsPath split on "," but not inside a {moo,goo} like glob
func splitMetricsPath(metric string) []string {
	out := []string{}
	gotFirst := false
	onStr := []rune{}
	for _, c := range metric {
		switch c {
		case '{':
			gotFirst = true
			onStr = append(onStr, c)
		case '}':
			if gotFirst {
				gotFirst = false
			}
			onStr = append(onStr, c)
		case ',':
			if !gotFirst {
				out = append(out, string(onStr))
				onStr = onStr[:0]
			} else {
				onStr = append(onStr, c)
			}
		default:
			onStr = append(onStr, c)
		}
	}
	if len(onStr) > 0 {
		out = append(out, string(onStr))
	}
	return out
}

// ParseOpenTSDBTags parse a tag query of the form key{name=val, name=val...}
func ParseOpenTSDBTags(query string) (key string, tags repr.SortingTags, err error) {
	// find the bits inside the {}

	inner := ""
	collecting := false
	keyCollecting := true
	oTags := &repr.SortingTags{}
	for _, char := range query {
		switch char {
		case '{':
			collecting = true
			keyCollecting = false
		case '}':
			collecting = false
		default:
			if collecting {
				inner += string(char)
			}
			if keyCollecting {
				key += string(char)
			}
		}
	}

	if len(inner) == 0 || collecting {
		return key, *oTags, fmt.Errorf("Invalid Tag query `{name=val, name=val}`")
	}
	tArr := strings.Split(inner, ",")
	for _, tg := range tArr {
		tSplit := strings.Split(strings.TrimSpace(tg), "=")
		if len(tSplit) == 2 {
			oTags.Set(tSplit[0], tSplit[1])
		}
	}

	return key, *oTags, nil
}
