package models

import (
	"time"

	id "cadastre/pkg/domain"
)

// Entry is one authorization grant in the access control list. Absence of an
// entry for a principal is equivalent to "not authorized".
type Entry struct {
	Principal id.Principal
	GrantedBy id.Principal
	GrantedAt time.Time
}
