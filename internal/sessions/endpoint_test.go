package sessions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEndpointFormat(t *testing.T) {
	require.Equal(t, Endpoint("/sessions/s-1"), EndpointSession.Format("s-1"))
	require.Equal(t, Endpoint("/pools/pool1/sessions"), EndpointCreateSession.Format("pool1"))
}

func TestEndpointFormatEscapesArguments(t *testing.T) {
	require.Equal(t, Endpoint("/sessions/s%2F1/execute"), EndpointExecuteCode.Format("s/1"))
}
