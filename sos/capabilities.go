package sos

import "strings"

// Level selects how much of the capabilities document is requested.
type Level string

const (
	LevelService    Level = "service"
	LevelContent    Level = "content"
	LevelOperations Level = "operations"
	LevelAll        Level = "all"
	LevelMinimal    Level = "minimal"
)

// Levels lists the accepted capabilities levels.
var Levels = []Level{LevelService, LevelContent, LevelOperations, LevelAll, LevelMinimal}

var sectionLevels = map[Level][]string{
	LevelService:    {"ServiceIdentification", "ServiceProvider"},
	LevelContent:    {"Contents"},
	LevelOperations: {"OperationsMetadata"},
	LevelAll: {
		"ServiceIdentification",
		"ServiceProvider",
		"OperationsMetadata",
		"FilterCapabilities",
		"Contents",
	},
	LevelMinimal: nil,
}

// Valid reports whether l is one of Levels.
func (l Level) Valid() bool {
	_, ok := sectionLevels[l]
	return ok
}

// Sections returns the comma-joined sections parameter for l; it is empty
// for LevelMinimal, which sends no sections at all.
func (l Level) Sections() string {
	return strings.Join(sectionLevels[l], ",")
}

func levelNames() []string {
	out := make([]string, len(Levels))
	for i, l := range Levels {
		out[i] = string(l)
	}
	return out
}
