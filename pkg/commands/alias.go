package commands

// AliasKind tags a command entry.
type AliasKind int

const (
	// AliasNone marks a canonical command without aliases.
	AliasNone AliasKind = iota
	// AliasParent marks a canonical command with at least one alias.
	AliasParent
	// AliasChild marks an alias entry.
	AliasChild
)

func (k AliasKind) String() string {
	switch k {
	case AliasParent:
		return "parent"
	case AliasChild:
		return "child"
	default:
		return "none"
	}
}

// AliasInfo records whether a command entry is canonical or an alias.
// Parent is set only for AliasChild.
type AliasInfo struct {
	Kind   AliasKind
	Parent *Command
}
