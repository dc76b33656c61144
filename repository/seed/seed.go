// Package seed holds the contact list used when no contacts file is configured.
package seed

import _ "embed"

//go:embed contacts.json
var Contacts []byte
