package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kinai/kinai/internal/app"
	"github.com/kinai/kinai/internal/clinic"
	"github.com/kinai/kinai/internal/model"
	"github.com/kinai/kinai/internal/textwrap"
)

var patientCmd = &cobra.Command{
	Use:   "patient",
	Short: "Register and browse patients",
}

func init() {
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a patient",
		Long:  "Register a patient through the two-step intake form. Attachments are given as name=url.",
		Run:   runPatientAdd,
	}
	f := add.Flags()
	f.String("name", "", "Full name (required)")
	f.String("document", "", "Document ID")
	f.String("birth", "", "Birth date (YYYY-MM-DD)")
	f.String("sex", "", "Sex")
	f.String("consultation", "", "Consultation date (YYYY-MM-DD, default today)")
	f.String("profession", "", "Profession")
	f.String("dominance", "", "Handedness: diestro, zurdo or ambidiestro")
	f.String("phone", "", "Phone")
	f.String("referral", "", "Referred by")
	f.String("diagnosis", "", "Medical diagnosis")
	f.String("history", "", "Medical history")
	f.String("ice", "", "Ideas, concerns and expectations")
	f.String("social", "", "Social determinants")
	f.String("chronopathology", "", "Chronopathology")
	f.String("red-flags", "", "Red flags")
	f.String("static", "", "Static inspection")
	f.String("dynamic", "", "Dynamic inspection")
	f.String("palpation", "", "Palpation")
	f.String("auscultation", "", "Auscultation")
	f.String("percussion", "", "Percussion")
	f.StringArrayP("attachment", "a", nil, "Attachment as name=url (repeatable)")
	add.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List patients with their session counts",
		Run:   runPatientList,
	}
	list.Flags().StringP("search", "s", "", "Filter by name or document ID")

	show := &cobra.Command{
		Use:   "show <patient-id>",
		Short: "Show a patient's record, sessions and pain chart",
		Args:  cobra.ExactArgs(1),
		Run:   runPatientShow,
	}

	patientCmd.AddCommand(add, list, show)
	RootCmd.AddCommand(patientCmd)
}

func runPatientAdd(cmd *cobra.Command, args []string) {
	f := cmd.Flags()
	str := func(name string) string {
		v, _ := f.GetString(name)
		return v
	}
	raw, _ := f.GetStringArray("attachment")

	attachments := make([]clinic.PendingAttachment, 0, len(raw))
	for _, a := range raw {
		name, url, ok := strings.Cut(a, "=")
		if !ok {
			exitErr("attachment", fmt.Errorf("%q is not name=url", a))
		}
		attachments = append(attachments, clinic.PendingAttachment{Name: strings.TrimSpace(name), URL: strings.TrimSpace(url)})
	}

	a, cols := openApp(cmd)
	defer cols.Close()

	a.StartRegistration()
	form := clinic.PatientForm{
		FullName:           str("name"),
		DocumentID:         str("document"),
		BirthDate:          str("birth"),
		Sex:                str("sex"),
		ConsultationDate:   str("consultation"),
		Profession:         str("profession"),
		Handedness:         model.ParseHandedness(str("dominance")),
		Phone:              str("phone"),
		Referral:           str("referral"),
		Diagnosis:          str("diagnosis"),
		MedicalHistory:     str("history"),
		ICE:                str("ice"),
		SocialDeterminants: str("social"),
		Chronopathology:    str("chronopathology"),
		RedFlags:           str("red-flags"),
	}
	if err := a.SetPatientForm(form); err != nil {
		exitErr("patient add", err)
	}
	if err := a.WizardNext(); err != nil {
		exitErr("patient add", err)
	}

	form.StaticInspection = str("static")
	form.DynamicInspection = str("dynamic")
	form.Palpation = str("palpation")
	form.Auscultation = str("auscultation")
	form.Percussion = str("percussion")
	if err := a.SetPatientForm(form); err != nil {
		exitErr("patient add", err)
	}
	for _, att := range attachments {
		i, err := a.AddAttachmentRow()
		if err != nil {
			exitErr("patient add", err)
		}
		if err := a.UpdateAttachmentRow(i, att.Name, att.URL); err != nil {
			exitErr("patient add", err)
		}
	}

	p, err := a.SubmitRegistration(cmd.Context())
	if err != nil {
		exitErr("patient add", err)
	}

	emit(cmd, p, func(w io.Writer) {
		fmt.Fprintf(w, "registered %s (%s)\n", p.FullName, p.ID)
	})
}

func runPatientList(cmd *cobra.Command, args []string) {
	search, _ := cmd.Flags().GetString("search")

	a, cols := openApp(cmd)
	defer cols.Close()

	a.SetSearch(search)
	rows := a.Dashboard()

	emit(cmd, rows, func(w io.Writer) {
		if len(rows) == 0 {
			fmt.Fprintln(w, "no patients")
			return
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tDOCUMENT\tDIAGNOSIS\tSESSIONS\tLAST")
		for _, r := range rows {
			last := r.Stats.LastSessionDate
			if last == "" {
				last = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", r.Patient.ID, r.Patient.FullName, r.Patient.DocumentID, r.Diagnosis, r.Stats.SessionCount, last)
		}
		tw.Flush()
	})
}

func runPatientShow(cmd *cobra.Command, args []string) {
	a, cols := openApp(cmd)
	defer cols.Close()

	if err := a.OpenPatient(args[0]); err != nil {
		exitErr("patient show", err)
	}
	d, err := a.Detail()
	if err != nil {
		exitErr("patient show", err)
	}

	emit(cmd, d, func(w io.Writer) { writeDetail(w, d) })
}

func writeDetail(w io.Writer, d app.Detail) {
	p := d.Patient
	fmt.Fprintf(w, "%s  [%s]\n", p.FullName, p.ID)
	fmt.Fprintf(w, "DNI %s | %s | sexo %s | %s | consulta %s\n",
		orDash(p.DocumentID), d.Age, orDash(p.Sex), orDash(string(p.Handedness)), orDash(p.ConsultationDate))
	if p.Phone != "" || p.Profession != "" || p.Referral != "" {
		fmt.Fprintf(w, "tel %s | profesión %s | derivación %s\n", orDash(p.Phone), orDash(p.Profession), orDash(p.Referral))
	}

	section(w, "Diagnóstico", clinic.DiagnosisLabel(p))
	for _, s := range []struct{ title, body string }{
		{"Antecedentes", p.MedicalHistory},
		{"ICE", p.ICE},
		{"Determinantes sociales", p.SocialDeterminants},
		{"Cronopatología", p.Chronopathology},
		{"Banderas rojas", p.RedFlags},
		{"Inspección estática", p.StaticInspection},
		{"Inspección dinámica", p.DynamicInspection},
		{"Palpación", p.Palpation},
		{"Auscultación", p.Auscultation},
		{"Percusión", p.Percussion},
	} {
		if strings.TrimSpace(s.body) != "" {
			section(w, s.title, s.body)
		}
	}
	if len(p.Attachments) > 0 {
		fmt.Fprintln(w, "\nAdjuntos:")
		for _, at := range p.Attachments {
			fmt.Fprintf(w, "  %s  %s\n", at.Name, at.URL)
		}
	}

	fmt.Fprintf(w, "\nSesiones: %d", d.Stats.SessionCount)
	if d.Stats.LastSessionDate != "" {
		fmt.Fprintf(w, " (última %s)", d.Stats.LastSessionDate)
	}
	fmt.Fprintln(w)

	if d.ChartReady {
		fmt.Fprintln(w, "\nEvolución del dolor (EVA):")
		for _, pt := range d.Chart {
			fmt.Fprintf(w, "  %s %2d %s\n", pt.Label, pt.Pain, strings.Repeat("#", model.ClampPain(pt.Pain)))
		}
	}

	for _, s := range d.Sessions {
		fmt.Fprintf(w, "\n%s %s  EVA %d/10  [%s]\n", s.Date, s.Time, s.PainLevel, s.ID)
		for _, f := range []struct{ label, body string }{
			{"objetivo", s.Objective},
			{"tratamiento", s.Treatment},
			{"evolución", s.Evolution},
			{"observaciones", s.Observations},
		} {
			if strings.TrimSpace(f.body) != "" {
				fmt.Fprintf(w, "  %s:\n%s\n", f.label, textwrap.Fill(f.body, textWidth, "    "))
			}
		}
	}
}

func section(w io.Writer, title, body string) {
	fmt.Fprintf(w, "\n%s:\n%s\n", title, textwrap.Fill(body, textWidth, "  "))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
