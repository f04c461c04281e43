package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rates-api-go/internal/store/storetest"
	"rates-api-go/pkg/model"
)

func TestResolve(t *testing.T) {
	s := buildFixture(t)

	tests := []struct {
		name       string
		identifier string
		kind       MatchKind
		ports      []string
	}{
		{"port code", "CNSGH", KindPort, []string{"CNSGH"}},
		{"leaf region", "baltic", KindRegion, []string{"EETLL"}},
		{"nested region", "north_europe_main", KindRegion, storetest.NorthEuropePorts},
		{"region without ports", "antarctica", KindRegion, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := s.Resolve(tt.identifier)
			require.NoError(t, err)
			assert.Equal(t, tt.identifier, m.Identifier)
			assert.Equal(t, tt.kind, m.Kind)
			assert.Equal(t, tt.ports, m.Ports)
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	s := buildFixture(t)

	for _, id := range []string{"MYHOUSE", "cnsgh", "North_Europe_Main", ""} {
		_, err := s.Resolve(id)
		require.Error(t, err, id)
		assert.True(t, IsUnresolved(err))

		var unresolved *UnresolvedError
		require.ErrorAs(t, err, &unresolved)
		assert.Equal(t, id, unresolved.Identifier)
	}
}

func TestResolvePortWinsOverRegion(t *testing.T) {
	regions := []model.Region{model.NewRegion("ABCDE", "Ambiguous", "")}
	ports := []model.Port{
		{Code: "ABCDE", ParentSlug: "other"},
		{Code: "XYZAB", ParentSlug: "ABCDE"},
	}
	s, err := Build(regions, ports, 1)
	require.NoError(t, err)

	m, err := s.Resolve("ABCDE")
	require.NoError(t, err)
	assert.Equal(t, KindPort, m.Kind)
	assert.Equal(t, []string{"ABCDE"}, m.Ports)
}

func TestResolvePortWithUnknownRegion(t *testing.T) {
	s, err := Build(nil, []model.Port{{Code: "LOST1", ParentSlug: "nowhere"}}, 1)
	require.NoError(t, err)

	m, err := s.Resolve("LOST1")
	require.NoError(t, err)
	assert.Equal(t, []string{"LOST1"}, m.Ports)

	_, err = s.Resolve("nowhere")
	assert.True(t, IsUnresolved(err))
}
