package serializer

import (
	"errors"
	"testing"

	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/sigma/pkg/parser"
	"github.com/hyp3rd/sigma/pkg/statistics"
	"github.com/hyp3rd/sigma/sentinel"
)

func TestSerializers_ResultRoundTrip(t *testing.T) {
	res, err := statistics.Compute(parser.NumberList{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Nil(t, err)

	for _, name := range []string{JSON, Msgpack, CBOR} {
		t.Run(name, func(t *testing.T) {
			ser, err := New(name)
			assert.Nil(t, err)

			data, err := ser.Marshal(res)
			assert.Nil(t, err)
			assert.True(t, len(data) > 0)

			var out statistics.Result

			err = ser.Unmarshal(data, &out)
			assert.Nil(t, err)
			assert.Equal(t, res.Count, out.Count)
			assert.Equal(t, res.Values, out.Values)
			assert.Equal(t, res.Mean, out.Mean)
			assert.Equal(t, res.Variance, out.Variance)
			assert.Equal(t, res.StdDev, out.StdDev)
			assert.Equal(t, res.Trace, out.Trace)
		})
	}
}

func TestRegistry_Errors(t *testing.T) {
	_, err := New("")
	assert.True(t, errors.Is(err, sentinel.ErrParamCannotBeEmpty))

	_, err = New("xml")
	assert.True(t, errors.Is(err, sentinel.ErrSerializerNotFound))

	empty := NewEmptySerializerRegistry()
	_, err = empty.New(JSON)
	assert.True(t, errors.Is(err, sentinel.ErrSerializerNotFound))

	empty.Register("custom", func() ISerializer { return &DefaultJSONSerializer{} })
	assert.Equal(t, []string{"custom"}, empty.Names())
}

func TestContentType(t *testing.T) {
	ct, ok := ContentType(Msgpack)
	assert.True(t, ok)
	assert.Equal(t, "application/msgpack", ct)

	name, ok := ForContentType("application/cbor")
	assert.True(t, ok)
	assert.Equal(t, CBOR, name)

	_, ok = ForContentType("text/html")
	assert.False(t, ok)
}
