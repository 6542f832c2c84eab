package inbound

type ScoreSubmitRequest struct {
	Game   string `json:"game"`
	Points int64  `json:"points"`
}

type ScoreSubmitResponse struct{}

func (ScoreSubmitResponse) Message() string {
	return "Score recorded."
}

type ScoreResponse struct {
	Rank      int    `json:"rank"`
	UserEmail string `json:"user_email"`
	Game      string `json:"game"`
	Points    int64  `json:"points"`
	CreatedAt string `json:"created_at"`
}

type ScoresResponse struct {
	Scores []ScoreResponse `json:"scores"`
}
