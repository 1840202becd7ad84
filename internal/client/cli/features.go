package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/Rajgupta764/legal-saarthi/internal/client/client"
	"github.com/Rajgupta764/legal-saarthi/internal/client/models"
	"github.com/Rajgupta764/legal-saarthi/internal/client/services"
)

var pincodePattern = regexp.MustCompile(`^\d{6}$`)

var issueTypes = []models.ChatOption{
	{Label: "भूमि विवाद", Value: "land_dispute"},
	{Label: "संपत्ति विवाद", Value: "property_dispute"},
	{Label: "पारिवारिक विवाद", Value: "family_dispute"},
	{Label: "घरेलू हिंसा", Value: "domestic_violence"},
	{Label: "उपभोक्ता शिकायत", Value: "consumer_complaint"},
	{Label: "रोजगार संबंधी", Value: "employment_issue"},
	{Label: "पुलिस शिकायत (FIR)", Value: "police_complaint"},
	{Label: "न्यायालय शपथ पत्र", Value: "court_affidavit"},
	{Label: "RTI आवेदन", Value: "rti_application"},
	{Label: "पेंशन संबंधी", Value: "pension_issue"},
	{Label: "जाति प्रमाण पत्र", Value: "caste_certificate"},
	{Label: "राशन कार्ड", Value: "ration_card"},
	{Label: "अन्य", Value: "other"},
}

// Upload sends a document for analysis and prints the explanation.
func (a *App) Upload(ctx context.Context, path string) error {
	if err := a.show(PathUpload); err != nil {
		return err
	}

	if path == "" {
		var err error
		if path, err = GetSimpleText(a.reader, "Path to the document (PNG, JPG or PDF)", a.out); err != nil {
			return err
		}
	}
	if path == "" {
		return fmt.Errorf("%w: document", services.ErrEmptyInput)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintln(a.out, "Analyzing document, this may take a while...")
	res, err := a.features.AnalyzeDocument(ctx, filepath.Base(path), f)
	if err != nil {
		return err
	}
	printJSON(a.out, res)
	return nil
}

// Classify asks for a problem description and prints its legal category.
func (a *App) Classify(ctx context.Context) error {
	text, err := GetMultiline(a.reader, "अपनी समस्या बताएं (describe your problem)", a.out)
	if err != nil {
		return err
	}

	res, err := a.features.ClassifyIssue(ctx, text)
	if err != nil {
		return err
	}

	name := res.CategoryName
	if name == "" {
		name = res.Category
	}
	fmt.Fprintf(a.out, "Category: %s (%s)\n", name, res.Category)
	if len(res.Steps) > 0 {
		fmt.Fprintln(a.out, "Steps:")
		printJSON(a.out, res.Steps)
	}
	if len(res.Documents) > 0 {
		fmt.Fprintln(a.out, "Documents:")
		printJSON(a.out, res.Documents)
	}
	return nil
}

// Schemes collects income, land and category and lists matching schemes.
// Every input is optional, but at least one is required.
func (a *App) Schemes(ctx context.Context) error {
	var q models.SchemeQuery
	var err error

	if q.Income, err = GetOptionalFloat(a.reader, "Income in ₹ (optional)", a.out); err != nil {
		return err
	}
	if q.Income != nil {
		q.IncomePeriod = "year"
		period, err := GetSimpleText(a.reader, "Income period: year or month [year]", a.out)
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if period == "month" {
			q.IncomePeriod = period
		}
	}

	if q.LandSize, err = GetOptionalFloat(a.reader, "Land size (optional)", a.out); err != nil {
		return err
	}
	if q.LandSize != nil {
		q.LandUnit = "acre"
		unit, err := GetSimpleText(a.reader, "Land unit: acre, hectare or bigha [acre]", a.out)
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if unit != "" {
			q.LandUnit = unit
		}
	}

	category, err := GetSimpleText(a.reader, "Category: general, obc, sc, st (optional)", a.out)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	q.Category = strings.ToLower(category)

	if q.Income == nil && q.LandSize == nil && q.Category == "" {
		return fmt.Errorf("%w: income, land size or category", services.ErrEmptyInput)
	}

	res, err := a.features.MatchSchemes(ctx, q)
	if err != nil {
		return err
	}
	printJSON(a.out, res)
	return nil
}

// LegalAid finds legal services offices by district or pincode.
func (a *App) LegalAid(ctx context.Context) error {
	var q models.LegalAidQuery
	var err error

	if q.District, err = GetSimpleText(a.reader, "District (optional)", a.out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if q.Pincode, err = GetSimpleText(a.reader, "Pincode (optional)", a.out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if q.Pincode != "" && !pincodePattern.MatchString(q.Pincode) {
		fmt.Fprintln(a.out, "Please enter a valid 6-digit pincode")
		return nil
	}

	res, err := a.features.FindLegalAid(ctx, q)
	if err != nil {
		return err
	}
	printJSON(a.out, res)
	return nil
}

// Draft generates a complaint or application letter.
func (a *App) Draft(ctx context.Context) error {
	issue, err := a.choose("समस्या का प्रकार चुनें (issue type)", issueTypes)
	if err != nil {
		return err
	}
	details, err := GetMultiline(a.reader, "समस्या का विवरण (details)", a.out)
	if err != nil {
		return err
	}

	draft, err := a.features.GenerateDraft(ctx, issue.Value, details)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, draft.Draft)
	if len(draft.Tips) > 0 {
		fmt.Fprintln(a.out, "Tips:")
		for _, tip := range draft.Tips {
			fmt.Fprintf(a.out, "  - %s\n", tip)
		}
	}
	if len(draft.SubmitTo) > 0 {
		fmt.Fprintln(a.out, "Submit to:")
		printJSON(a.out, draft.SubmitTo)
	}
	return nil
}

// Chat runs a conversation with the legal chatbot. Options may be picked by
// number; an empty answer or "done" ends the conversation.
func (a *App) Chat(ctx context.Context) error {
	reply, err := a.features.StartChat(ctx)
	if err != nil {
		return err
	}
	history := []models.ChatTurn{{Type: models.TurnBotResponse, Content: reply.Message, Question: reply.Question}}

	for {
		printReply(a.out, reply)
		if reply.Completed {
			return a.chatSuggestion(ctx, reply.Data)
		}

		answer, err := GetSimpleText(a.reader, "Your answer ('done' to finish)", a.out)
		if errors.Is(err, io.EOF) || answer == "" || answer == "done" {
			return nil
		}
		if err != nil {
			return err
		}

		input := answer
		turn := models.ChatTurn{Type: models.TurnUserInput, Content: answer}
		if opt, ok := pickOption(reply.Options, answer); ok {
			input = opt.Value
			turn = models.ChatTurn{Type: models.TurnUserSelection, Content: opt.Label, SelectedOption: opt.Value}
		}
		history = append(history, turn)

		if reply, err = a.features.SendChatMessage(ctx, input, history); err != nil {
			return err
		}
		history = append(history, models.ChatTurn{Type: models.TurnBotResponse, Content: reply.Message, Question: reply.Question})
	}
}

func (a *App) chatSuggestion(ctx context.Context, data json.RawMessage) error {
	s, err := a.features.ChatSuggestion(ctx, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\n%s\n", s.Title, s.Description)

	docType := strings.TrimPrefix(s.Action, "generate_")
	if docType == "" {
		return nil
	}
	label := s.Button
	if label == "" {
		label = "Generate " + strings.ToUpper(docType)
	}
	ok, err := GetSimpleText(a.reader, label+"? (y/N)", a.out)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if !strings.EqualFold(ok, "y") {
		return nil
	}

	doc, err := a.features.GenerateChatDocument(ctx, data, docType)
	if err != nil {
		return err
	}
	printJSON(a.out, doc)
	return nil
}

// Learn shows legal education content:
//
//	learn              all topics
//	learn <id>         one topic
//	learn search <kw>  topics matching a keyword
//	learn fear         fear removal mode
//	learn faq          common questions
func (a *App) Learn(ctx context.Context, args []string) error {
	var (
		res json.RawMessage
		err error
	)
	switch {
	case len(args) == 0:
		res, err = a.features.AllTopics(ctx)
	case args[0] == "search":
		res, err = a.features.SearchTopics(ctx, strings.Join(args[1:], " "))
	case args[0] == "fear":
		res, err = a.features.FearRemovalMode(ctx)
	case args[0] == "faq":
		res, err = a.features.CommonQuestions(ctx)
	default:
		res, err = a.features.Topic(ctx, args[0])
	}
	if err != nil {
		return err
	}
	printJSON(a.out, res)
	return nil
}

// choose prints numbered options and accepts a number or an option value.
func (a *App) choose(prompt string, options []models.ChatOption) (models.ChatOption, error) {
	fmt.Fprintln(a.out, prompt)
	for i, o := range options {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, o.Label)
	}
	answer, err := GetSimpleText(a.reader, "Choose", a.out)
	if err != nil {
		return models.ChatOption{}, err
	}
	opt, ok := pickOption(options, answer)
	if !ok {
		return models.ChatOption{}, fmt.Errorf("%w: no option %q", services.ErrEmptyInput, answer)
	}
	return opt, nil
}

func pickOption(options []models.ChatOption, answer string) (models.ChatOption, bool) {
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
		return options[n-1], true
	}
	for _, o := range options {
		if strings.EqualFold(o.Value, answer) {
			return o, true
		}
	}
	return models.ChatOption{}, false
}

func printReply(w io.Writer, r *models.ChatReply) {
	fmt.Fprintln(w, r.Message)
	if r.Question != "" {
		fmt.Fprintln(w, r.Question)
	}
	for i, o := range r.Options {
		fmt.Fprintf(w, "  %d. %s\n", i+1, o.Label)
	}
}

// printJSON writes raw indented; invalid JSON is written unchanged.
func printJSON(w io.Writer, raw json.RawMessage) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		fmt.Fprintln(w, string(raw))
		return
	}
	fmt.Fprintln(w, buf.String())
}

// errorMessage turns a command error into a line for the user. Backend
// errors use the same messages as the rest of the app.
func errorMessage(err error) string {
	var (
		le *client.LogicalError
		se *client.StatusError
	)
	switch {
	case errors.As(err, &le), errors.As(err, &se),
		errors.Is(err, client.ErrUnavailable), errors.Is(err, client.ErrMalformedResponse):
		return services.UserMessage(err, "")
	case errors.Is(err, services.ErrNotAuthenticated):
		return "Please log in first."
	case errors.Is(err, services.ErrEmptyInput):
		return "Missing input: " + strings.TrimPrefix(err.Error(), services.ErrEmptyInput.Error()+": ")
	default:
		return "Error: " + err.Error()
	}
}
