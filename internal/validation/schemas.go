package validation

// Rule tables for the three CrewDeck entities. Field order matters: it is
// the order violations are reported in.

func positive() *int { n := 1; return &n }
func zero() *int     { n := 0; return &n }

func auditFields() []Field {
	return []Field{
		{Path: "createdAt", Kind: Datetime, Label: "Created date", Required: true, Audit: true,
			TypeMessage: "Created date must be a valid datetime"},
		{Path: "updatedAt", Kind: Datetime, Label: "Updated date", Required: true, Audit: true,
			TypeMessage: "Updated date must be a valid datetime"},
		{Path: "isDeleted", Kind: Bool, Required: true, Audit: true},
		{Path: "deletedBy", Kind: String, Required: true, Audit: true, Nullable: true},
		{Path: "deletedAt", Kind: Datetime, Required: true, Audit: true, Nullable: true},
		{Path: "createdBy", Kind: String, Required: true, Audit: true, Nullable: true},
		{Path: "updatedBy", Kind: String, Required: true, Audit: true, Nullable: true},
	}
}

// BoatSchema validates boat records: name 1-200 chars, description up to
// 1000, owning profile id positive.
var BoatSchema = &Schema{
	Entity: "boat",
	Fields: append([]Field{
		{Path: "id", Kind: Int, Label: "ID", Identity: true, TypeMessage: "ID must be an integer"},
		{Path: "name", Kind: String, Label: "Boat name", Required: true, MinLen: 1, MaxLen: 200},
		{Path: "description", Kind: String, Label: "Description", MaxLen: 1000},
		{Path: "image", Kind: String, Label: "Image"},
		{Path: "profileId", Kind: Int, Label: "Profile ID", Required: true, MinInt: positive(),
			TypeMessage: "Profile ID must be an integer", MinMessage: "Profile ID is required"},
	}, auditFields()...),
}

// EventSchema validates sailing events, including the crew-bound and date
// ordering invariants.
var EventSchema = &Schema{
	Entity: "event",
	Fields: append([]Field{
		{Path: "id", Kind: Int, Label: "ID", Identity: true, TypeMessage: "ID must be an integer"},
		{Path: "boatId", Kind: Int, Label: "Boat ID", Required: true, MinInt: positive(),
			TypeMessage: "Boat ID must be an integer", MinMessage: "Boat is required"},
		{Path: "name", Kind: String, Label: "Name", Required: true, MinLen: 1},
		{Path: "startDate", Kind: Datetime, Label: "Start date", Required: true,
			TypeMessage: "Start date must be a valid datetime"},
		{Path: "endDate", Kind: Datetime, Label: "End date", Nullable: true,
			TypeMessage: "End date must be a valid datetime"},
		{Path: "location", Kind: String, Label: "Location", Required: true, MinLen: 1, MaxLen: 300},
		{Path: "description", Kind: String, Label: "Description", MaxLen: 1000},
		{Path: "minCrew", Kind: Int, Label: "Min crew", Nullable: true, MinInt: zero(),
			TypeMessage: "Min crew must be an integer"},
		{Path: "maxCrew", Kind: Int, Label: "Max crew", Nullable: true, MinInt: zero(),
			TypeMessage: "Max crew must be an integer"},
		{Path: "desiredCrew", Kind: Int, Label: "Desired crew", Nullable: true, MinInt: zero(),
			TypeMessage: "Desired crew must be an integer"},
	}, auditFields()...),
	Invariants: []Invariant{
		{
			Name:    "date_order",
			Path:    "endDate",
			Message: "End date must be after start date",
			Fields:  []string{"startDate", "endDate"},
			Check: func(rec map[string]any) bool {
				start, okS := timeAt(rec, "startDate")
				end, okE := timeAt(rec, "endDate")
				if !okS || !okE {
					return true
				}
				return !end.Before(start)
			},
		},
		{
			Name:    "crew_min_max",
			Path:    "maxCrew",
			Message: "Min crew cannot be greater than max crew",
			Fields:  []string{"minCrew", "maxCrew"},
			Check: func(rec map[string]any) bool {
				min, okMin := intAt(rec, "minCrew")
				max, okMax := intAt(rec, "maxCrew")
				if !okMin || !okMax {
					return true
				}
				return min <= max
			},
		},
		{
			Name:    "crew_desired_bounds",
			Path:    "desiredCrew",
			Message: "Desired crew must be between min and max crew",
			Fields:  []string{"minCrew", "desiredCrew", "maxCrew"},
			Check: func(rec map[string]any) bool {
				min, okMin := intAt(rec, "minCrew")
				desired, okDes := intAt(rec, "desiredCrew")
				max, okMax := intAt(rec, "maxCrew")
				if !okMin || !okDes || !okMax {
					return true
				}
				return desired >= min && desired <= max
			},
		},
	},
}

// ProfileSchema validates the application user record.
var ProfileSchema = &Schema{
	Entity: "profile",
	Fields: append([]Field{
		{Path: "id", Kind: Int, Label: "ID", Identity: true, TypeMessage: "ID must be an integer"},
		{Path: "loginId", Kind: String, Label: "Login ID"},
		{Path: "name", Kind: String, Label: "Name", Required: true, MinLen: 1},
		{Path: "email", Kind: Email, Label: "Email", Required: true},
		{Path: "phone", Kind: String, Label: "Phone"},
		{Path: "address", Kind: String, Label: "Address"},
	}, auditFields()...),
}
