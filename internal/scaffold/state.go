package scaffold

// State is a step of the flow. Transitions are logged at debug level.
type State int

const (
	StateCollectingName State = iota
	StateFetching
	StatePatchingManifest
	StateOfferingInstall
	StateInstalling
	StateSkipped
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateCollectingName:   "collecting-name",
	StateFetching:         "fetching",
	StatePatchingManifest: "patching-manifest",
	StateOfferingInstall:  "offering-install",
	StateInstalling:       "installing",
	StateSkipped:          "skipped",
	StateDone:             "done",
	StateFailed:           "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
