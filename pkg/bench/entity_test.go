package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDocument(t *testing.T) {
	cases := []struct {
		filename string
		want     DocumentType
	}{
		{"John_Resume.pdf", DocResume},
		{"my-cv-2024.docx", DocResume},
		{"CV.pdf", DocResume},
		{"aws_certificate.pdf", DocCertificate},
		{"bachelors_degree.pdf", DocDegree},
		{"transcript_2023.pdf", DocTranscript},
		{"random.pdf", DocOther},
		{"", DocOther},
		// "resume" wins over later keywords
		{"resume_degree.pdf", DocResume},
	}
	for _, tc := range cases {
		t.Run(tc.filename, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyDocument(tc.filename))
		})
	}
}

func TestDocumentTypeDisplayNames(t *testing.T) {
	assert.Equal(t, "Resume", DocResume.DisplayName())
	assert.Equal(t, "Transcript", DocTranscript.DisplayName())
	assert.True(t, DocOther.Valid())
	assert.False(t, DocumentType("DIPLOMA").Valid())
}
