package topology

// ErrPackage indicates an unknown package variant name.
type ErrPackage string

func (err ErrPackage) Error() string {
	return f("package '%v' unknown", string(err))
}
