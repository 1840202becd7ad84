package mockbackend

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

var allowedDocumentExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".pdf": true}

const maxDocumentBytes = 16 << 20

func (s *Server) handleAnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxDocumentBytes); err != nil {
		writeFailure(w, http.StatusBadRequest, "No file found", "कृपया एक फ़ाइल अपलोड करें")
		return
	}
	file, hdr, err := r.FormFile("document")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "No file found", "कृपया एक फ़ाइल अपलोड करें")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(hdr.Filename))
	if !allowedDocumentExt[ext] {
		writeFailure(w, http.StatusBadRequest, "Invalid file type", "केवल PNG, JPG, PDF फ़ाइलें स्वीकार हैं। आपकी फ़ाइल: "+ext)
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"filename":     hdr.Filename,
		"size":         hdr.Size,
		"documentType": "court_notice",
		"urgency":      "high",
		"summary":      "यह अदालत का नोटिस है। आपको निर्धारित तारीख पर उपस्थित होना है।",
		"actions":      []string{"नोटिस की तारीख नोट करें", "नज़दीकी विधिक सेवा प्राधिकरण से संपर्क करें"},
	})
}

var issueCategories = []struct {
	keywords []string
	category string
	name     string
}{
	{[]string{"zameen", "land", "जमीन", "ज़मीन", "khet"}, "land_dispute", "ज़मीन विवाद"},
	{[]string{"police", "पुलिस", "thana", "fir"}, "police_complaint", "पुलिस शिकायत"},
	{[]string{"salary", "wage", "मजदूरी", "naukri"}, "wage_dispute", "मजदूरी विवाद"},
	{[]string{"dahej", "dowry", "दहेज", "ghar"}, "domestic_violence", "घरेलू हिंसा"},
}

func (s *Server) handleClassifyIssue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "No data provided", "कृपया अपनी समस्या का विवरण दें")
		return
	}
	text := strings.ToLower(strings.TrimSpace(req.Text))
	switch {
	case text == "":
		writeFailure(w, http.StatusBadRequest, "Text is required", "कृपया अपनी समस्या का विवरण लिखें")
		return
	case len([]rune(text)) < 10:
		writeFailure(w, http.StatusBadRequest, "Text too short", "कृपया अपनी समस्या के बारे में थोड़ा और विस्तार से बताएं")
		return
	}

	category, name := "general", "सामान्य कानूनी सहायता"
	for _, c := range issueCategories {
		if containsAny(text, c.keywords) {
			category, name = c.category, c.name
			break
		}
	}
	writeData(w, http.StatusOK, map[string]any{
		"category":     category,
		"categoryName": name,
		"steps":        []string{"सभी दस्तावेज़ इकट्ठा करें", "नज़दीकी विधिक सहायता केंद्र जाएं"},
		"documents":    []string{"आधार कार्ड", "संबंधित कागज़ात"},
	})
}

func (s *Server) handleMatchSchemes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Income       *float64 `json:"income"`
		IncomePeriod string   `json:"incomePeriod"`
		LandSize     *float64 `json:"landSize"`
		LandUnit     string   `json:"landUnit"`
		Category     string   `json:"category"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "No data provided", "Please provide income, land size, or category.")
		return
	}
	if req.Income == nil && req.LandSize == nil && req.Category == "" {
		writeFailure(w, http.StatusBadRequest, "Missing inputs", "Please provide at least one input: income, land size, or category.")
		return
	}

	schemes := []map[string]string{
		{"id": "pm_kisan", "name": "पीएम किसान सम्मान निधि", "benefit": "₹6000 प्रति वर्ष"},
	}
	if req.Income != nil && *req.Income < 300000 {
		schemes = append(schemes, map[string]string{"id": "nalsa_free_aid", "name": "निःशुल्क कानूनी सहायता", "benefit": "मुफ़्त वकील"})
	}
	writeData(w, http.StatusOK, map[string]any{"schemes": schemes, "count": len(schemes)})
}

func (s *Server) handleFindLegalAid(w http.ResponseWriter, r *http.Request) {
	var req struct {
		District string   `json:"district"`
		Pincode  string   `json:"pincode"`
		UserLat  *float64 `json:"userLat"`
		UserLng  *float64 `json:"userLng"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "No data provided", "Please provide district or pincode")
		return
	}
	if req.District == "" && req.Pincode == "" && (req.UserLat == nil || req.UserLng == nil) {
		writeFailure(w, http.StatusBadRequest, "Query is required", "Please provide district, pincode, or enable location")
		return
	}

	district := req.District
	if district == "" {
		district = "Patna"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"offices": []map[string]string{{
			"name":    "District Legal Services Authority, " + district,
			"address": "Civil Court Campus, " + district,
			"phone":   "15100",
		}},
		"searchType": "district",
		"count":      1,
	})
}

func (s *Server) handleGenerateDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IssueType string `json:"issueType"`
		Details   string `json:"details"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "No data provided", "कृपया समस्या की जानकारी दें")
		return
	}
	switch {
	case req.IssueType == "":
		writeFailure(w, http.StatusBadRequest, "Issue type is required", "कृपया समस्या का प्रकार चुनें")
		return
	case strings.TrimSpace(req.Details) == "":
		writeFailure(w, http.StatusBadRequest, "Details are required", "कृपया समस्या का विवरण लिखें")
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"draft":    "सेवा में,\nथाना प्रभारी महोदय,\n\nविषय: " + req.IssueType + "\n\n" + req.Details + "\n\nभवदीय",
		"tips":     []string{"पत्र की एक प्रति अपने पास रखें", "प्राप्ति रसीद अवश्य लें"},
		"submitTo": map[string]string{"office": "नज़दीकी पुलिस थाना"},
	})
}

var chatCategories = []map[string]string{
	{"label": "पुलिस उत्पीड़न", "value": "police_harassment"},
	{"label": "ज़मीन विवाद", "value": "land_dispute"},
	{"label": "चोरी", "value": "theft"},
}

func (s *Server) handleChatStart(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]any{
		"message": "नमस्ते! मैं आपकी कानूनी समस्या समझने में मदद करूंगा। आपकी समस्या किस बारे में है?",
		"options": chatCategories,
		"step":    "category_selection",
	})
}

func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserInput           string           `json:"user_input"`
		ConversationHistory []map[string]any `json:"conversation_history"`
	}
	if err := decodeBody(r, &req); err != nil || req.UserInput == "" {
		writeFailure(w, http.StatusBadRequest, "Invalid input", "")
		return
	}

	// Two questions per conversation, then the summary.
	answered := 0
	for _, turn := range req.ConversationHistory {
		if turn["type"] == "user_input" || turn["type"] == "user_selection" {
			answered++
		}
	}
	if answered >= 2 {
		writeData(w, http.StatusOK, map[string]any{
			"message":   "धन्यवाद। आपकी जानकारी पूरी हो गई है।",
			"completed": true,
			"action":    "generate_fir",
			"data":      map[string]any{"category": req.UserInput, "answers": answered + 1},
		})
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"message":  "समझ गया।",
		"question": "यह घटना कब हुई?",
		"options": []map[string]string{
			{"label": "आज", "value": "today"},
			{"label": "इस सप्ताह", "value": "this_week"},
		},
		"progress": map[string]int{"current": answered + 1, "total": 3},
	})
}

func (s *Server) handleChatSuggestion(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{
		"title":       "FIR दर्ज करें",
		"description": "आपकी जानकारी के आधार पर FIR दर्ज करना उचित होगा।",
		"action":      "generate_fir",
		"button":      "FIR तैयार करें",
	})
}

func (s *Server) handleChatDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConversationData map[string]any `json:"conversation_data"`
		DocumentType     string         `json:"document_type"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error(), "दस्तावेज़ जनरेशन में त्रुटि")
		return
	}
	if req.DocumentType == "" {
		req.DocumentType = "fir"
	}
	writeData(w, http.StatusOK, map[string]any{
		"document_type":  req.DocumentType,
		"formatted_data": req.ConversationData,
		"message":        strings.ToUpper(req.DocumentType) + " तैयार करने के लिए तैयार है",
	})
}

type topic struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Points  []string `json:"points"`
}

var topics = []topic{
	{
		ID:      "police_powers",
		Title:   "पुलिस की शक्तियाँ",
		Summary: "पुलिस बिना वारंट कब गिरफ्तार कर सकती है और कब नहीं।",
		Points:  []string{"गिरफ्तारी का कारण बताना अनिवार्य है", "24 घंटे में मजिस्ट्रेट के सामने पेश करना होगा"},
	},
	{
		ID:      "user_rights",
		Title:   "आपके अधिकार",
		Summary: "गिरफ्तारी और पूछताछ के दौरान आपके अधिकार।",
		Points:  []string{"वकील से मिलने का अधिकार", "परिवार को सूचना देने का अधिकार"},
	},
	{
		ID:      "fir_information",
		Title:   "FIR की जानकारी",
		Summary: "FIR कैसे दर्ज करें और पुलिस मना करे तो क्या करें।",
		Points:  []string{"FIR की मुफ़्त प्रति पाने का अधिकार", "ज़ीरो FIR किसी भी थाने में"},
	},
}

func findTopic(id string) (topic, bool) {
	for _, t := range topics {
		if t.ID == id {
			return t, true
		}
	}
	return topic{}, false
}

func (s *Server) handleAllTopics(w http.ResponseWriter, r *http.Request) {
	all := make(map[string]topic, len(topics))
	for _, t := range topics {
		all[t.ID] = t
	}
	writeData(w, http.StatusOK, all)
}

func (s *Server) handleTopic(w http.ResponseWriter, r *http.Request) {
	t, ok := findTopic(chi.URLParam(r, "topic"))
	if !ok {
		writeFailure(w, http.StatusNotFound, "Topic not found", "विषय नहीं मिला")
		return
	}
	writeData(w, http.StatusOK, t)
}

func (s *Server) handleSearchTopics(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Keyword string `json:"keyword"`
	}
	_ = decodeBody(r, &req)
	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		writeFailure(w, http.StatusBadRequest, "Keyword is required", "")
		return
	}

	needle := strings.ToLower(keyword)
	results := []topic{}
	for _, t := range topics {
		if strings.Contains(strings.ToLower(t.ID+" "+t.Title+" "+t.Summary), needle) {
			results = append(results, t)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"keyword":      keyword,
		"result_count": len(results),
		"results":      results,
	})
}

func (s *Server) handleFearRemovalMode(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]any{
		"title":    "डरें नहीं, जानें",
		"messages": []string{"कानून आपकी रक्षा के लिए है", "मुफ़्त कानूनी सहायता आपका अधिकार है"},
		"helpline": "15100",
	})
}

func (s *Server) handleCommonQuestions(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, []map[string]string{
		{"question": "क्या पुलिस FIR दर्ज करने से मना कर सकती है?", "answer": "नहीं, संज्ञेय अपराध में FIR दर्ज करना अनिवार्य है।"},
		{"question": "मुफ़्त वकील कैसे मिलेगा?", "answer": "ज़िला विधिक सेवा प्राधिकरण में आवेदन करें।"},
	})
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, strings.ToLower(w)) {
			return true
		}
	}
	return false
}
