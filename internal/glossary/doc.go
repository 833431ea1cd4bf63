// Package glossary loads user-supplied term substitution rules from a
// plain text file. Each line is one rule and is kept verbatim (apart from
// surrounding whitespace) for the prompt builder.
package glossary
