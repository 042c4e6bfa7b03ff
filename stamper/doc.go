// Package stamper reads workspace status files and substitutes
// single-brace {VAR} placeholders in command line values. Load parses
// one or more status files into a Stamps map; Stamps.Expand performs
// the substitution, preserving unknown variables as-is.
package stamper
