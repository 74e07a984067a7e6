package service

// Platform describes one supported source platform and its intake
// modes. The registry keeps the API shape extensible even though only
// Memos is implemented today.
type Platform struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Modes       []string `json:"modes"`
}

const (
	ModeFile    = "file"
	ModeAPI     = "api"
	ModePayload = "payload"
)

func Platforms() []Platform {
	return []Platform{
		{
			ID:          "memos",
			Name:        "Memos",
			Description: "Convert Memos data to Rote format",
			Modes:       []string{ModeAPI, ModeFile, ModePayload},
		},
	}
}
