package store

import (
	"testing"

	pb "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
)

func strValue(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}

func TestExtractTextPriority(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]*pb.Value
		want    string
	}{
		{
			name:    "text wins over content",
			payload: map[string]*pb.Value{"text": strValue("from text"), "content": strValue("from content")},
			want:    "from text",
		},
		{
			name:    "content wins over page_content",
			payload: map[string]*pb.Value{"content": strValue("from content"), "page_content": strValue("from page")},
			want:    "from content",
		},
		{
			name:    "page_content as last named key",
			payload: map[string]*pb.Value{"page_content": strValue("from page")},
			want:    "from page",
		},
		{
			name:    "nil payload",
			payload: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractText(tt.payload))
		})
	}
}

func TestExtractTextFallbackToStringForm(t *testing.T) {
	payload := map[string]*pb.Value{
		"pages": {Kind: &pb.Value_IntegerValue{IntegerValue: 12}},
	}
	assert.Equal(t, "pages=12", extractText(payload))
}

func TestNewQdrantStoreDefaults(t *testing.T) {
	s, err := NewQdrantStore("http://localhost:6334", "")
	assert.NoError(t, err)
	defer func() { _ = s.Close() }()

	assert.Equal(t, defaultCollection, s.collectionName)
	assert.Equal(t, uint64(defaultVectorSize), s.vectorSize)
}
