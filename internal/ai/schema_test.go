package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestionSchemaValidation(t *testing.T) {
	schema := SuggestionListSchema()

	assert.NoError(t, schema.Validate([]byte(`[{"topic":"Hàm số","difficulty":"Easy","count":10,"description":"Ôn tập"}]`)))
	assert.Error(t, schema.Validate([]byte(`[{"topic":"Hàm số","difficulty":"Hard","count":10,"description":"x"}]`)))
	assert.Error(t, schema.Validate([]byte(`[{"topic":"Hàm số"}]`)))
	assert.Error(t, schema.Validate([]byte(`{"topic":"Hàm số"}`)))
}

func TestQuizSchemaValidation(t *testing.T) {
	schema := QuizSchema("")
	valid := `{"topic":"Đạo hàm","questions":[{"id":1,"question":"1+1?","options":["1","2","3","4"],"correctAnswer":1,"explanation":"Vì 2."}]}`
	threeOptions := `{"topic":"Đạo hàm","questions":[{"id":1,"question":"1+1?","options":["1","2","3"],"correctAnswer":1,"explanation":"Vì 2."}]}`
	badAnswer := `{"topic":"Đạo hàm","questions":[{"id":1,"question":"1+1?","options":["1","2","3","4"],"correctAnswer":4,"explanation":"Vì 2."}]}`

	assert.NoError(t, schema.Validate([]byte(valid)))
	assert.Error(t, schema.Validate([]byte(threeOptions)))
	assert.Error(t, schema.Validate([]byte(badAnswer)))
	assert.Error(t, schema.Validate([]byte(`not json`)))
}

func TestSchemaRenderings(t *testing.T) {
	gemini := QuizSchema("Chủ đề").Gemini()
	assert.Equal(t, "OBJECT", gemini["type"])
	assert.Equal(t, []string{"topic", "questions"}, gemini["propertyOrdering"])

	props, ok := gemini["properties"].(map[string]interface{})
	require.True(t, ok)
	topic, ok := props["topic"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "STRING", topic["type"])
	assert.Equal(t, "Chủ đề", topic["description"])

	jsonSchema := SuggestionListSchema().JSONSchema()
	assert.Equal(t, "array", jsonSchema["type"])
	_, hasOrdering := jsonSchema["propertyOrdering"]
	assert.False(t, hasOrdering)
}
