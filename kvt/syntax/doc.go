// Package syntax parses the KVT text format into a parse tree.
//
// The grammar is
//
//	document      = node EOF
//	node          = '{' entryList? '}'
//	entryList     = entry (',' entry)*
//	entry         = key ':' value
//	key           = Identifier | StringLiteral
//	value         = literal | array | node
//	literal       = StringLiteral | FloatingPointLiteral | IntegerLiteral | BooleanLiteral
//	array         = '[' ArrayPrefix arrayElements? ']'
//	arrayElements = value (',' value)*
//
// Whitespace, // line comments and /* */ block comments are ignored between
// tokens. Literals keep their raw lexemes; interpreting them (type suffixes,
// escapes, array prefixes) is left to the caller.
package syntax
