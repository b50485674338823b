package service

import (
	"regexp"
	"strings"
)

// ExtractedIdentity holds the structured fields pulled out of raw OCR
// text. Field names follow the Indonesian KTP layout the rules target;
// all fields are optional — the extractor fills what it can find.
type ExtractedIdentity struct {
	NIK           string `json:"nik,omitempty"`
	FullName      string `json:"full_name,omitempty"`
	PlaceOfBirth  string `json:"place_of_birth,omitempty"`
	DateOfBirth   string `json:"date_of_birth,omitempty"`
	Gender        string `json:"gender,omitempty"`
	BloodType     string `json:"blood_type,omitempty"`
	Address       string `json:"address,omitempty"`
	Religion      string `json:"religion,omitempty"`
	MaritalStatus string `json:"marital_status,omitempty"`
	Occupation    string `json:"occupation,omitempty"`
	Citizenship   string `json:"citizenship,omitempty"`
	DocumentType  string `json:"document_type,omitempty"`
}

var (
	nikRe       = regexp.MustCompile(`(?i)\bNIK\s*[:.]?\s*(\d{16})\b`)
	bareNIKRe   = regexp.MustCompile(`\b(\d{16})\b`)
	nameRe      = regexp.MustCompile(`(?i)\bNama\s*[:.]?\s*([A-Z][A-Z .,'-]+)`)
	birthRe     = regexp.MustCompile(`(?i)Tempat/?\s*Tgl\.?\s*Lahir\s*[:.]?\s*([A-Z .'-]+?)[,]\s*(\d{2}[-/]\d{2}[-/]\d{4})`)
	genderRe    = regexp.MustCompile(`(?i)Jenis\s*Kelamin\s*[:.]?\s*(LAKI-?LAKI|PEREMPUAN)`)
	bloodRe     = regexp.MustCompile(`(?i)Gol\.?\s*Darah\s*[:.]?\s*(AB|A|B|O)\b`)
	addressRe   = regexp.MustCompile(`(?i)Alamat\s*[:.]?\s*(.+)`)
	religionRe  = regexp.MustCompile(`(?i)Agama\s*[:.]?\s*(ISLAM|KRISTEN|KATOLIK|HINDU|BUDDHA|KONGHUCU)`)
	maritalRe   = regexp.MustCompile(`(?i)Status\s*Perkawinan\s*[:.]?\s*(BELUM\s*KAWIN|KAWIN|CERAI\s*HIDUP|CERAI\s*MATI)`)
	jobRe       = regexp.MustCompile(`(?i)Pekerjaan\s*[:.]?\s*([A-Z/ .'-]+)`)
	citizenRe   = regexp.MustCompile(`(?i)Kewarganegaraan\s*[:.]?\s*(WNI|WNA)`)
	passportRe  = regexp.MustCompile(`(?i)\b(passport|paspor)\b`)
	driverRe    = regexp.MustCompile(`(?i)\b(SIM|driving licen[cs]e|surat izin mengemudi)\b`)
	idCardRe    = regexp.MustCompile(`(?i)\b(KTP|kartu tanda penduduk|NIK)\b`)
	multiSpace  = regexp.MustCompile(`[ \t]+`)
	genderMap   = map[string]string{"LAKI-LAKI": "MALE", "PEREMPUAN": "FEMALE"}
	maritalMap  = map[string]string{
		"BELUM KAWIN": "SINGLE",
		"KAWIN":       "MARRIED",
		"CERAI HIDUP": "DIVORCED",
		"CERAI MATI":  "WIDOWED",
	}
)

// Extractor applies rule-based field extraction over OCR text.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(text string) ExtractedIdentity {
	var out ExtractedIdentity
	cleaned := multiSpace.ReplaceAllString(text, " ")

	if m := nikRe.FindStringSubmatch(cleaned); m != nil {
		out.NIK = m[1]
	} else if m := bareNIKRe.FindStringSubmatch(cleaned); m != nil {
		out.NIK = m[1]
	}
	if m := nameRe.FindStringSubmatch(cleaned); m != nil {
		out.FullName = trimField(m[1])
	}
	if m := birthRe.FindStringSubmatch(cleaned); m != nil {
		out.PlaceOfBirth = trimField(m[1])
		out.DateOfBirth = strings.ReplaceAll(m[2], "/", "-")
	}
	if m := genderRe.FindStringSubmatch(cleaned); m != nil {
		key := strings.ToUpper(strings.ReplaceAll(m[1], " ", ""))
		key = strings.ReplaceAll(key, "LAKILAKI", "LAKI-LAKI")
		out.Gender = genderMap[key]
	}
	if m := bloodRe.FindStringSubmatch(cleaned); m != nil {
		out.BloodType = strings.ToUpper(m[1])
	}
	if m := addressRe.FindStringSubmatch(text); m != nil {
		out.Address = trimField(firstLine(m[1]))
	}
	if m := religionRe.FindStringSubmatch(cleaned); m != nil {
		out.Religion = strings.ToUpper(m[1])
	}
	if m := maritalRe.FindStringSubmatch(cleaned); m != nil {
		key := strings.ToUpper(multiSpace.ReplaceAllString(m[1], " "))
		out.MaritalStatus = maritalMap[key]
	}
	if m := jobRe.FindStringSubmatch(cleaned); m != nil {
		out.Occupation = trimField(m[1])
	}
	if m := citizenRe.FindStringSubmatch(cleaned); m != nil {
		out.Citizenship = strings.ToUpper(m[1])
	}

	out.DocumentType = e.documentType(cleaned)
	return out
}

func (e *Extractor) documentType(text string) string {
	switch {
	case passportRe.MatchString(text):
		return "passport"
	case driverRe.MatchString(text):
		return "driver_license"
	case idCardRe.MatchString(text):
		return "id_card"
	}
	return ""
}

func trimField(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ".,:")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
