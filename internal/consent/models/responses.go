package models

// StateResponse is the client view of the consent state.
type StateResponse struct {
	Analysis        bool `json:"analysis"`
	AnalysisGoogle  bool `json:"analysis_google"`
	Personalization bool `json:"personalization"`

	PendingAnalysis        bool `json:"pending_analysis"`
	PendingAnalysisGoogle  bool `json:"pending_analysis_google"`
	PendingPersonalization bool `json:"pending_personalization"`

	ShowPrompt     bool `json:"show_prompt"`
	Customizing    bool `json:"customizing"`
	ConfirmEnabled bool `json:"confirm_enabled"`
}

func NewStateResponse(s State) StateResponse {
	return StateResponse{
		Analysis:               s.AnalysisGranted,
		AnalysisGoogle:         s.AnalysisGoogleGranted,
		Personalization:        s.PersonalizationGranted,
		PendingAnalysis:        s.PendingAnalysis,
		PendingAnalysisGoogle:  s.PendingAnalysisGoogle,
		PendingPersonalization: s.PendingPersonalization,
		ShowPrompt:             s.PromptOpen,
		Customizing:            s.Customizing,
		ConfirmEnabled:         s.AnyPending(),
	}
}

type PolicyLinkResponse struct {
	Location string `json:"location"`
}

// RevokeResponse carries the localized notification shown after a sweep.
type RevokeResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	State   StateResponse `json:"state"`
}
