package voice

// EnrollResponse reports a stored reference profile
type EnrollResponse struct {
	Message     string  `json:"message"`
	StudentID   string  `json:"student_id"`
	ProfilePath string  `json:"profile_path"`
	Duration    float64 `json:"duration"`
}

// ProfileStatusResponse mirrors the on-disk reference profile
type ProfileStatusResponse struct {
	StudentID  string  `json:"student_id"`
	Exists     bool    `json:"exists"`
	Duration   float64 `json:"duration,omitempty"`
	SampleRate int     `json:"sample_rate,omitempty"`
	Channels   int     `json:"channels,omitempty"`
	FileSize   int64   `json:"file_size,omitempty"`
}

// WordsResponse carries sampled challenge words
type WordsResponse struct {
	Words []string `json:"words"`
}
