package models

import "encoding/json"

// SchemeQuery is the body of POST /match-schemes. Zero values are omitted so
// the backend applies its own defaults.
type SchemeQuery struct {
	Income       *float64 `json:"income,omitempty"`
	IncomePeriod string   `json:"incomePeriod,omitempty"`
	LandSize     *float64 `json:"landSize,omitempty"`
	LandUnit     string   `json:"landUnit,omitempty"`
	Category     string   `json:"category,omitempty"`
}

// LegalAidQuery is the body of POST /find-legal-aid.
type LegalAidQuery struct {
	District string   `json:"district,omitempty"`
	Pincode  string   `json:"pincode,omitempty"`
	UserLat  *float64 `json:"userLat,omitempty"`
	UserLng  *float64 `json:"userLng,omitempty"`
}

// DraftRequest is the body of POST /generate-draft.
type DraftRequest struct {
	IssueType string `json:"issueType"`
	Details   string `json:"details"`
}

// Draft is the generated complaint letter.
type Draft struct {
	Draft    string          `json:"draft"`
	Tips     []string        `json:"tips,omitempty"`
	SubmitTo json.RawMessage `json:"submitTo,omitempty"`
}

// IssueClassification is the result of POST /classify-issue.
type IssueClassification struct {
	Category     string          `json:"category"`
	CategoryName string          `json:"categoryName,omitempty"`
	Steps        json.RawMessage `json:"steps,omitempty"`
	Documents    json.RawMessage `json:"documents,omitempty"`
}

// ChatOption is a selectable answer offered by the chatbot.
type ChatOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Conversation history entry types understood by the chatbot.
const (
	TurnUserSelection = "user_selection"
	TurnUserInput     = "user_input"
	TurnBotResponse   = "bot_response"
)

// ChatTurn is one entry of the conversation history sent back to the chatbot.
type ChatTurn struct {
	Type           string `json:"type"`
	Content        string `json:"content"`
	SelectedOption string `json:"selected_option,omitempty"`
	Question       string `json:"question,omitempty"`
}

// ChatMessageRequest is the body of POST /chatbot/message.
type ChatMessageRequest struct {
	UserInput           string     `json:"user_input"`
	ConversationHistory []ChatTurn `json:"conversation_history"`
}

// ChatReply is what the chatbot answers to start and message calls. The
// dialogue state machine lives on the backend; Data is carried back verbatim.
type ChatReply struct {
	Message   string          `json:"message"`
	Question  string          `json:"question,omitempty"`
	Options   []ChatOption    `json:"options,omitempty"`
	Step      string          `json:"step,omitempty"`
	Progress  json.RawMessage `json:"progress,omitempty"`
	Completed bool            `json:"completed,omitempty"`
	Action    string          `json:"action,omitempty"`
	Category  string          `json:"category,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// ChatDocumentRequest is the body of POST /chatbot/generate-document and,
// without DocumentType, of POST /chatbot/get-suggestion.
type ChatDocumentRequest struct {
	ConversationData json.RawMessage `json:"conversation_data"`
	DocumentType     string          `json:"document_type,omitempty"`
}

// ChatSuggestion is the next action the chatbot proposes once a
// conversation is complete.
type ChatSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Action      string `json:"action,omitempty"`
	Button      string `json:"button,omitempty"`
}

// TopicSearch is the body of POST /legal-education/search.
type TopicSearch struct {
	Keyword string `json:"keyword"`
}
