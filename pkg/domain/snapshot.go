package domain

// Snapshot is the in-memory image of every directory collection an operation
// reads. It satisfies RuleView.
type Snapshot struct {
	Clergy         []Clergy          `json:"clergy"`
	Parishes       []Parish          `json:"parishes"`
	Deaneries      []Deanery         `json:"deaneries"`
	Users          []UserAccount     `json:"userAuth"`
	Credentials    []LoginCredential `json:"-"`
	CalendarEvents []CalendarEvent   `json:"calendarEvents"`
}

var _ RuleView = (*Snapshot)(nil)

// ListClergy returns the clergy collection in stored order.
func (s *Snapshot) ListClergy() []Clergy { return s.Clergy }

// ListParishes returns the parish collection in stored order.
func (s *Snapshot) ListParishes() []Parish { return s.Parishes }

// ListDeaneries returns the deanery collection in stored order.
func (s *Snapshot) ListDeaneries() []Deanery { return s.Deaneries }

// ListUserAccounts returns the account collection in stored order.
func (s *Snapshot) ListUserAccounts() []UserAccount { return s.Users }

// FindClergy looks up a clergy record by id.
func (s *Snapshot) FindClergy(id string) (Clergy, bool) {
	if i := s.ClergyIndex(id); i >= 0 {
		return s.Clergy[i], true
	}
	return Clergy{}, false
}

// FindParish looks up a parish by id.
func (s *Snapshot) FindParish(id string) (Parish, bool) {
	if i := s.ParishIndex(id); i >= 0 {
		return s.Parishes[i], true
	}
	return Parish{}, false
}

// FindDeanery looks up a deanery by id.
func (s *Snapshot) FindDeanery(id string) (Deanery, bool) {
	if i := s.DeaneryIndex(id); i >= 0 {
		return s.Deaneries[i], true
	}
	return Deanery{}, false
}

// ClergyIndex returns the position of id in the clergy collection or -1.
func (s *Snapshot) ClergyIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.Clergy {
		if s.Clergy[i].ID == id {
			return i
		}
	}
	return -1
}

// ParishIndex returns the position of id in the parish collection or -1.
func (s *Snapshot) ParishIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.Parishes {
		if s.Parishes[i].ID == id {
			return i
		}
	}
	return -1
}

// DeaneryIndex returns the position of id in the deanery collection or -1.
func (s *Snapshot) DeaneryIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.Deaneries {
		if s.Deaneries[i].ID == id {
			return i
		}
	}
	return -1
}

// UserIndex returns the position of id in the account collection or -1.
func (s *Snapshot) UserIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.Users {
		if s.Users[i].ID == id {
			return i
		}
	}
	return -1
}

// CalendarEventIndex returns the position of id in the calendar collection or -1.
func (s *Snapshot) CalendarEventIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.CalendarEvents {
		if s.CalendarEvents[i].ID == id {
			return i
		}
	}
	return -1
}
