package cli

import (
	"fmt"
	"io"

	"github.com/Rajgupta764/legal-saarthi/internal/client/services"
)

type feature struct {
	command string
	label   string
	labelHi string
}

var dashboardFeatures = []feature{
	{"upload <file>", "Document Check", "दस्तावेज़ जांचें"},
	{"classify", "Describe Your Problem", "अपनी समस्या बताएं"},
	{"legalaid", "Find Help", "सहायता खोजें"},
	{"draft", "Draft Generator", "FIR और आवेदन पत्र"},
	{"schemes", "Government Schemes", "सरकारी योजनाएं"},
	{"chat", "Legal Chatbot", "कानूनी सहायक"},
	{"learn", "Know Your Rights", "अपने अधिकार जानें"},
}

func (a *App) views() []View {
	return []View{
		{Path: PathHome, Title: "Rural Legal Saathi", Render: renderHome},
		{Path: PathAuth, Title: "Login / Signup", Render: renderAuth},
		{Path: PathDashboard, Title: "Dashboard", Protected: true, Render: renderDashboard},
		{Path: PathUpload, Title: "Document Upload", Protected: true, Render: renderUpload},
	}
}

func renderHome(w io.Writer, st services.State) {
	fmt.Fprintln(w, "ग्रामीण नागरिकों के लिए कानूनी सहायता")
	if st.Authenticated {
		fmt.Fprintln(w, "Type 'go /dashboard' to open your dashboard.")
		return
	}
	fmt.Fprintln(w, "Type 'login' or 'signup' to get started, 'learn' to read about your rights.")
}

func renderAuth(w io.Writer, st services.State) {
	if st.Authenticated && st.User != nil {
		fmt.Fprintf(w, "Logged in as %s. Type 'logout' to switch accounts.\n", st.User.DisplayName())
		return
	}
	fmt.Fprintln(w, "Type 'login' to sign in or 'signup' to create an account.")
}

func renderDashboard(w io.Writer, st services.State) {
	name := ""
	if st.User != nil {
		name = st.User.DisplayName()
	}
	fmt.Fprintf(w, "नमस्ते, %s\n", name)
	for _, f := range dashboardFeatures {
		fmt.Fprintf(w, "  %-15s %s (%s)\n", f.command, f.label, f.labelHi)
	}
}

func renderUpload(w io.Writer, _ services.State) {
	fmt.Fprintln(w, "Type 'upload <file>' to check a notice or order (PNG, JPG or PDF).")
}
