package detector

import (
	"encoding/json"
	"testing"

	"github.com/MeKo-Tech/mapscan/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectedObjectJSONRoundTrip(t *testing.T) {
	obj := DetectedObject{
		Box:        utils.NewBox(10, 20, 110, 220),
		ClassName:  ClassText,
		Confidence: 0.87,
	}
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.JSONEq(t, `{"bbox":[10,20,110,220],"class_name":"text","confidence":0.87}`, string(data))

	var back DetectedObject
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, obj, back)
}

func TestDetectedObjectValidate(t *testing.T) {
	obj := DetectedObject{Box: utils.NewBox(0, 0, 50, 50), ClassName: ClassLegend, Confidence: 0.5}
	assert.NoError(t, obj.Validate(100, 100))

	outOfBounds := DetectedObject{Box: utils.NewBox(0, 0, 150, 50), ClassName: ClassLegend, Confidence: 0.5}
	assert.Error(t, outOfBounds.Validate(100, 100))

	badConf := DetectedObject{Box: utils.NewBox(0, 0, 50, 50), ClassName: ClassLegend, Confidence: 1.5}
	assert.Error(t, badConf.Validate(100, 100))
}
