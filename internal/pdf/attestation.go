package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"
)

// AttestationDoc is everything the attestation PDF renders. Amounts are
// integer cents; the euro formatting happens here only.
type AttestationDoc struct {
	Number            int
	IssuedOn          string
	PatientName       string
	PractitionerName  string
	PriceMode         string
	SendMethod        string
	ThirdPartyPayment bool
	TreatmentReason   string
	Lines             []AttestationDocLine
	TotalCents        int
	VerificationURL   string
}

type AttestationDocLine struct {
	Code        string
	Label       string
	ToothNumber int // 0 when the prestation is not tooth-bound
	FeeCents    int
}

func euros(cents int) string {
	return fmt.Sprintf("%d,%02d EUR", cents/100, cents%100)
}

// BuildAttestationPDF renders an attestation de soins: header, prestation
// table, totals and a verification QR code.
func BuildAttestationPDF(doc AttestationDoc) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Attestation de soins n. %d", doc.Number), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Date: "+doc.IssuedOn, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Patient: "+doc.PatientName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Praticien: "+doc.PractitionerName, "", 1, "L", false, 0, "")
	if doc.TreatmentReason != "" {
		pdf.CellFormat(0, 6, "Motif du traitement: "+doc.TreatmentReason, "", 1, "L", false, 0, "")
	}
	mode := "Tarif conventionne"
	if doc.PriceMode != "convention" {
		mode = "Tarif libre"
	}
	pdf.CellFormat(0, 6, mode, "", 1, "L", false, 0, "")
	if doc.ThirdPartyPayment {
		pdf.CellFormat(0, 6, "Tiers payant applique", "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Prestation table.
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(30, 7, "Code", "1", 0, "L", false, 0, "")
	pdf.CellFormat(90, 7, "Prestation", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Dent", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 7, "Honoraires", "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, l := range doc.Lines {
		tooth := ""
		if l.ToothNumber > 0 {
			tooth = fmt.Sprintf("%d", l.ToothNumber)
		}
		pdf.CellFormat(30, 7, l.Code, "1", 0, "L", false, 0, "")
		pdf.CellFormat(90, 7, l.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, tooth, "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 7, euros(l.FeeCents), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(140, 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, euros(doc.TotalCents), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 9)
	send := "Envoi: eFact"
	if doc.SendMethod == "paper" {
		send = "Envoi: papier"
	}
	pdf.CellFormat(0, 6, send, "", 1, "L", false, 0, "")

	if doc.VerificationURL != "" {
		qrPNG, err := qrcode.Encode(doc.VerificationURL, qrcode.Medium, 128)
		if err == nil {
			tmpFile, err := os.CreateTemp("", "qr-*.png")
			if err == nil {
				tmpFile.Write(qrPNG)
				path := tmpFile.Name()
				tmpFile.Close()
				defer os.Remove(path)
				pdf.RegisterImage(path, "PNG")
				pdf.Image(path, 15, pdf.GetY(), 30, 30, false, "", 0, "")
				pdf.SetY(pdf.GetY() + 32)
			}
		}
		pdf.CellFormat(0, 6, "Verification: "+doc.VerificationURL, "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePDFTo renders the attestation straight to the writer (HTTP response
// or file).
func WritePDFTo(doc AttestationDoc, w io.Writer) error {
	b, err := BuildAttestationPDF(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
