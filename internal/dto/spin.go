package dto

type SpinRequestDTO struct {
	Bet int64 `json:"bet" example:"10"`
}

type SpinResponseDTO struct {
	SpinID     string   `json:"spin_id" example:"6f1c2d6e-0a3b-4c8e-9f2a-1b2c3d4e5f60"`
	Reels      []string `json:"reels" example:"cherry,cherry,cherry"`
	Bet        int64    `json:"bet" example:"10"`
	Multiplier int64    `json:"multiplier" example:"2"`
	WinAmount  int64    `json:"win_amount" example:"20"`
	IsJackpot  bool     `json:"is_jackpot" example:"false"`
	Balance    int64    `json:"balance" example:"110"`
}
