package backend

import "oatc/src/x86ir"

// label.go: the only platform variance is whether global labels carry a
// leading underscore (Mach-O) or not (GAS/linux).

// mangleLabel returns the final assembly label for a Gid/Tid name under the
// active platform convention.
func mangleLabel(linuxLabels bool, name string) x86ir.Label {
	if linuxLabels {
		return x86ir.Label(name)
	}
	return x86ir.Label("_" + name)
}
