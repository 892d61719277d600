package registry

// Module IDs. These are stable identifiers: events reference them in their
// enabled_modules column and the composer dispatches on them.
const (
	ModuleRegistration  = "registration"
	ModuleSchedule      = "schedule"
	ModuleAnnouncements = "announcements"
	ModuleTeams         = "teams"
	ModuleVoting        = "voting"
	ModuleCheckin       = "checkin"
	ModuleLeaderboard   = "leaderboard"
)

// ConfigOption describes one configurable knob of a module. The schema is
// descriptive (drives organizer-facing forms); event module_configs are not
// validated against it server-side.
type ConfigOption struct {
	Type    string      `json:"type"` // number, boolean, select
	Label   string      `json:"label"`
	Default interface{} `json:"default"`
	Options []string    `json:"options,omitempty"`
}

// Module is one entry of the platform module catalog
type Module struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	Description    string                  `json:"description"`
	Icon           string                  `json:"icon"`
	DefaultEnabled bool                    `json:"default_enabled"`
	ConfigSchema   map[string]ConfigOption `json:"config_schema"`
	SortOrder      int                     `json:"sort_order"`
}

// DefaultModules returns the ordered platform module catalog. The catalog is
// fixed at build time; changing it requires a redeploy.
func DefaultModules() []Module {
	return []Module{
		{
			ID:             ModuleRegistration,
			Name:           "Registration",
			Description:    "Accept RSVPs and manage participant sign-ups",
			Icon:           "clipboard-list",
			DefaultEnabled: true,
			ConfigSchema: map[string]ConfigOption{
				"max_participants":  {Type: "number", Label: "Max Participants", Default: 100},
				"waitlist_enabled":  {Type: "boolean", Label: "Enable Waitlist", Default: false},
				"requires_approval": {Type: "boolean", Label: "Require Approval", Default: false},
			},
			SortOrder: 1,
		},
		{
			ID:             ModuleSchedule,
			Name:           "Schedule",
			Description:    "Timeline and agenda for the event",
			Icon:           "calendar",
			DefaultEnabled: true,
			ConfigSchema: map[string]ConfigOption{
				"show_speakers": {Type: "boolean", Label: "Show Speakers", Default: true},
				"enable_tracks": {Type: "boolean", Label: "Enable Multi-Track", Default: false},
			},
			SortOrder: 2,
		},
		{
			ID:             ModuleAnnouncements,
			Name:           "Announcements",
			Description:    "Post updates and alerts for participants",
			Icon:           "megaphone",
			DefaultEnabled: true,
			ConfigSchema: map[string]ConfigOption{
				"allow_push": {Type: "boolean", Label: "Push Notifications", Default: false},
			},
			SortOrder: 3,
		},
		{
			ID:             ModuleTeams,
			Name:           "Team Formation",
			Description:    "Allow participants to form or join teams",
			Icon:           "users",
			DefaultEnabled: false,
			ConfigSchema: map[string]ConfigOption{
				"max_team_size": {Type: "number", Label: "Max Team Size", Default: 4},
				"min_team_size": {Type: "number", Label: "Min Team Size", Default: 2},
				"allow_solo":    {Type: "boolean", Label: "Allow Solo Participation", Default: false},
			},
			SortOrder: 4,
		},
		{
			ID:             ModuleVoting,
			Name:           "Live Voting",
			Description:    "Create polls and collect votes in real time",
			Icon:           "vote",
			DefaultEnabled: false,
			ConfigSchema: map[string]ConfigOption{
				"anonymous":         {Type: "boolean", Label: "Anonymous Votes", Default: true},
				"show_results_live": {Type: "boolean", Label: "Show Results Live", Default: true},
			},
			SortOrder: 5,
		},
		{
			ID:             ModuleCheckin,
			Name:           "QR Check-In",
			Description:    "QR-code based attendance tracking",
			Icon:           "qr-code",
			DefaultEnabled: false,
			ConfigSchema: map[string]ConfigOption{
				"generate_qr": {Type: "boolean", Label: "Auto-Generate QR", Default: true},
			},
			SortOrder: 6,
		},
		{
			ID:             ModuleLeaderboard,
			Name:           "Leaderboard",
			Description:    "Track and display participant or team rankings",
			Icon:           "trophy",
			DefaultEnabled: false,
			ConfigSchema: map[string]ConfigOption{
				"show_scores": {Type: "boolean", Label: "Show Scores Publicly", Default: true},
				"update_frequency": {
					Type:    "select",
					Label:   "Update Frequency",
					Default: "manual",
					Options: []string{"realtime", "hourly", "manual"},
				},
			},
			SortOrder: 7,
		},
	}
}

// DefaultEnabledModuleIDs returns the module IDs enabled on a new event when
// the organizer does not choose any.
func DefaultEnabledModuleIDs() []string {
	return []string{ModuleRegistration, ModuleSchedule, ModuleAnnouncements}
}
