// Package command defines the commands of the interactive FLWarrior shell and
// handles parsing of commands from input sources.
package command

// Command is a valid command received from an input source.
type Command struct {

	// Verb is the canonical name of the command being invoked, such as "LEX",
	// "COMPILE", or "QUIT". Some verbs have shorthand forms which are typed
	// differently, for instance "DETERMINIZE" could be typed instead of "DFA",
	// and for all those cases they result in a Command with the canonical
	// verb.
	Verb string

	// Target is the kind of thing a verb acts on, for verbs that need one. For
	// instance in "SHOW GRAMMAR" the target is "GRAMMAR". It is always upper
	// case.
	Target string

	// Arg is the remainder of the input after the verb and any target, with
	// its case and inner spacing preserved. For "COMPILE (a|b)*c" it would be
	// "(a|b)*c".
	Arg string
}
