package cmds

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
)

func (p *Executor) PrintUsage() {
	printed := make(map[*Command]bool)
	for _, name := range slices.Sorted(maps.Keys(p.commands)) {
		command := p.commands[name]
		if printed[command] {
			continue
		}
		printed[command] = true
		printCommand(name, command, 0)
	}
}

func printCommand(name string, command *Command, depth int) {
	line := strings.Repeat("  ", depth) + name
	if len(command.Aliases) > 0 {
		line += " (" + strings.Join(command.Aliases, ", ") + ")"
	}
	if command.Description != "" {
		line += ": " + command.Description
	}
	fmt.Fprintln(os.Stderr, line)
	for _, subName := range slices.Sorted(maps.Keys(command.Subs)) {
		printCommand(subName, command.Subs[subName], depth+1)
	}
}
