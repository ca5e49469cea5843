package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Output sections understood by -outputFormat.
const (
	FormatPenn              = "penn"
	FormatWordsAndTags      = "wordsAndTags"
	FormatTypedDependencies = "typedDependencies"
)

// DefaultFlags is the option list the demo loads its model with.
var DefaultFlags = []string{
	"-maxLength", "50",
	"-retainTmpSubcategories",
	"-outputFormat", "wordsAndTags,penn,typedDependencies",
}

// Options configure a model load.
type Options struct {
	MaxLength              int
	RetainTmpSubcategories bool
	OutputFormats          []string
}

// Flags renders the options back into a flag list.
func (o Options) Flags() []string {
	var out []string
	if o.MaxLength > 0 {
		out = append(out, "-maxLength", strconv.Itoa(o.MaxLength))
	}
	if o.RetainTmpSubcategories {
		out = append(out, "-retainTmpSubcategories")
	}
	if len(o.OutputFormats) > 0 {
		out = append(out, "-outputFormat", strings.Join(o.OutputFormats, ","))
	}
	return out
}

// Wants reports whether format was requested by -outputFormat. An empty list
// requests everything.
func (o Options) Wants(format string) bool {
	if len(o.OutputFormats) == 0 {
		return true
	}
	for _, f := range o.OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}

// ParseFlags reads a parser option list such as DefaultFlags.
func ParseFlags(args []string) (Options, error) {
	var o Options
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-maxLength":
			if i+1 >= len(args) {
				return o, fmt.Errorf("-maxLength requires a value")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n <= 0 {
				return o, fmt.Errorf("-maxLength: invalid value %q", args[i+1])
			}
			o.MaxLength = n
			i++
		case "-retainTmpSubcategories":
			o.RetainTmpSubcategories = true
		case "-outputFormat":
			if i+1 >= len(args) {
				return o, fmt.Errorf("-outputFormat requires a value")
			}
			for _, f := range strings.Split(args[i+1], ",") {
				f = strings.TrimSpace(f)
				switch f {
				case FormatPenn, FormatWordsAndTags, FormatTypedDependencies:
					o.OutputFormats = append(o.OutputFormats, f)
				case "":
				default:
					return o, fmt.Errorf("-outputFormat: unknown format %q", f)
				}
			}
			i++
		default:
			return o, fmt.Errorf("unknown parser option %q", args[i])
		}
	}
	return o, nil
}

// CheckLength returns ErrSentenceTooLong when words exceeds the configured
// maximum.
func (o Options) CheckLength(words []string) error {
	if o.MaxLength > 0 && len(words) > o.MaxLength {
		return fmt.Errorf("%w: %d > %d", ErrSentenceTooLong, len(words), o.MaxLength)
	}
	return nil
}
