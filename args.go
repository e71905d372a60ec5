package main

import (
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// splitArgs separates flags from positional arguments so that negative
// coordinates such as "-1.55" are not taken for shorthand flags.
func splitArgs(fs *pflag.FlagSet, args []string) (flagArgs, positional []string) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			return flagArgs, append(positional, args[i+1:]...)
		case isNumber(a) || a == "-" || !strings.HasPrefix(a, "-"):
			positional = append(positional, a)
		default:
			flagArgs = append(flagArgs, a)
			if takesValue(fs, a) && i+1 < len(args) {
				i++
				flagArgs = append(flagArgs, args[i])
			}
		}
	}
	return flagArgs, positional
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// takesValue reports whether the flag token a consumes the next argument.
func takesValue(fs *pflag.FlagSet, a string) bool {
	if strings.Contains(a, "=") {
		return false
	}
	var f *pflag.Flag
	if name := strings.TrimPrefix(a, "--"); name != a {
		f = fs.Lookup(name)
	} else if len(a) == 2 {
		f = fs.ShorthandLookup(a[1:])
	}
	return f != nil && f.NoOptDefVal == ""
}
