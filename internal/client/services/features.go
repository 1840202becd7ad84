package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Rajgupta764/legal-saarthi/internal/client/client"
	"github.com/Rajgupta764/legal-saarthi/internal/client/models"
)

// Feature routes relative to the API base URL.
const (
	AnalyzeDocumentPath      = "/analyze-document"
	ClassifyIssuePath        = "/classify-issue"
	MatchSchemesPath         = "/match-schemes"
	FindLegalAidPath         = "/find-legal-aid"
	GenerateDraftPath        = "/generate-draft"
	ChatStartPath            = "/chatbot/start"
	ChatMessagePath          = "/chatbot/message"
	ChatSuggestionPath       = "/chatbot/get-suggestion"
	ChatGenerateDocumentPath = "/chatbot/generate-document"
	AllTopicsPath            = "/legal-education/all-topics"
	TopicPath                = "/legal-education/topic/"
	SearchTopicsPath         = "/legal-education/search"
	FearRemovalModePath      = "/legal-education/fear-removal-mode"
	CommonQuestionsPath      = "/legal-education/common-questions"

	// DocumentField is the multipart field the document analyzer reads.
	DocumentField = "document"

	DefaultUploadTimeout = 2 * time.Minute
)

var ErrEmptyInput = errors.New("empty input")

// Features wraps the backend's assistance endpoints. The backend owns the
// shape of most results, so they are returned as raw JSON unless the client
// reads specific fields.
type Features struct {
	api           client.Client
	uploadTimeout time.Duration
}

type FeaturesOption func(*Features)

func WithUploadTimeout(d time.Duration) FeaturesOption {
	return func(f *Features) {
		if d > 0 {
			f.uploadTimeout = d
		}
	}
}

func NewFeatures(api client.Client, opts ...FeaturesOption) *Features {
	f := &Features{api: api, uploadTimeout: DefaultUploadTimeout}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AnalyzeDocument uploads a scanned notice or order for OCR and explanation.
func (f *Features) AnalyzeDocument(ctx context.Context, filename string, r io.Reader) (json.RawMessage, error) {
	if r == nil || filename == "" {
		return nil, fmt.Errorf("%w: document", ErrEmptyInput)
	}

	form := client.NewForm().AddFile(DocumentField, filename, r)
	resp, err := f.api.Do(ctx, &client.Request{
		Method:  http.MethodPost,
		Path:    AnalyzeDocumentPath,
		Body:    form,
		Timeout: f.uploadTimeout,
	})
	if err != nil {
		return nil, err
	}
	return client.DecodeData[json.RawMessage](resp)
}

func (f *Features) ClassifyIssue(ctx context.Context, text string) (*models.IssueClassification, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: issue text", ErrEmptyInput)
	}
	return postData[*models.IssueClassification](ctx, f.api, ClassifyIssuePath, map[string]string{"text": text})
}

func (f *Features) MatchSchemes(ctx context.Context, q models.SchemeQuery) (json.RawMessage, error) {
	return postData[json.RawMessage](ctx, f.api, MatchSchemesPath, q)
}

// FindLegalAid returns the whole response body: the backend puts the office
// list next to its own metadata rather than under "data".
func (f *Features) FindLegalAid(ctx context.Context, q models.LegalAidQuery) (json.RawMessage, error) {
	if q.District == "" && q.Pincode == "" && (q.UserLat == nil || q.UserLng == nil) {
		return nil, fmt.Errorf("%w: district, pincode or location", ErrEmptyInput)
	}
	resp, err := f.api.Post(ctx, FindLegalAidPath, q)
	if err != nil {
		return nil, err
	}
	return rawEnvelope(resp)
}

func (f *Features) GenerateDraft(ctx context.Context, issueType, details string) (*models.Draft, error) {
	if strings.TrimSpace(details) == "" {
		return nil, fmt.Errorf("%w: details", ErrEmptyInput)
	}
	return postData[*models.Draft](ctx, f.api, GenerateDraftPath, models.DraftRequest{IssueType: issueType, Details: details})
}

func (f *Features) StartChat(ctx context.Context) (*models.ChatReply, error) {
	resp, err := f.api.Get(ctx, ChatStartPath)
	if err != nil {
		return nil, err
	}
	return client.DecodeData[*models.ChatReply](resp)
}

func (f *Features) SendChatMessage(ctx context.Context, input string, history []models.ChatTurn) (*models.ChatReply, error) {
	if history == nil {
		history = []models.ChatTurn{}
	}
	return postData[*models.ChatReply](ctx, f.api, ChatMessagePath, models.ChatMessageRequest{
		UserInput:           input,
		ConversationHistory: history,
	})
}

func (f *Features) ChatSuggestion(ctx context.Context, conversation json.RawMessage) (*models.ChatSuggestion, error) {
	return postData[*models.ChatSuggestion](ctx, f.api, ChatSuggestionPath, models.ChatDocumentRequest{
		ConversationData: orEmptyObject(conversation),
	})
}

func (f *Features) GenerateChatDocument(ctx context.Context, conversation json.RawMessage, documentType string) (json.RawMessage, error) {
	return postData[json.RawMessage](ctx, f.api, ChatGenerateDocumentPath, models.ChatDocumentRequest{
		ConversationData: orEmptyObject(conversation),
		DocumentType:     documentType,
	})
}

func (f *Features) AllTopics(ctx context.Context) (json.RawMessage, error) {
	return getData(ctx, f.api, AllTopicsPath)
}

func (f *Features) Topic(ctx context.Context, id string) (json.RawMessage, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: topic", ErrEmptyInput)
	}
	return getData(ctx, f.api, TopicPath+url.PathEscape(id))
}

// SearchTopics returns the "results" array, which the backend places at the
// top level of the response.
func (f *Features) SearchTopics(ctx context.Context, keyword string) (json.RawMessage, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%w: keyword", ErrEmptyInput)
	}
	resp, err := f.api.Post(ctx, SearchTopicsPath, models.TopicSearch{Keyword: keyword})
	if err != nil {
		return nil, err
	}
	raw, err := rawEnvelope(resp)
	if err != nil {
		return nil, err
	}

	var body struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", client.ErrMalformedResponse, err)
	}
	if len(body.Results) == 0 {
		return json.RawMessage("[]"), nil
	}
	return body.Results, nil
}

func (f *Features) FearRemovalMode(ctx context.Context) (json.RawMessage, error) {
	return getData(ctx, f.api, FearRemovalModePath)
}

func (f *Features) CommonQuestions(ctx context.Context) (json.RawMessage, error) {
	return getData(ctx, f.api, CommonQuestionsPath)
}

func postData[T any](ctx context.Context, api client.Client, path string, body any) (T, error) {
	resp, err := api.Post(ctx, path, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return client.DecodeData[T](resp)
}

func getData(ctx context.Context, api client.Client, path string) (json.RawMessage, error) {
	resp, err := api.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return client.DecodeData[json.RawMessage](resp)
}

// rawEnvelope checks success and returns the whole body.
func rawEnvelope(resp *client.Response) (json.RawMessage, error) {
	env, err := client.DecodeEnvelope(resp.Body)
	if err != nil {
		return nil, err
	}
	if err := env.Err(); err != nil {
		return nil, err
	}
	return env.Raw, nil
}

func orEmptyObject(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("{}")
	}
	return raw
}
