package netmaker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oriolrius/nmctl/pkg/netmaker/nmtest"
	"github.com/oriolrius/nmctl/pkg/types"
)

func TestAuthenticate_MasterKey(t *testing.T) {
	// Master key is used verbatim; no login round trip happens, so an
	// unreachable server must not matter
	client, err := NewClient(Config{
		BaseURL:       "http://127.0.0.1:1",
		MasterKey:     "the-master-key",
		ValidateCerts: true,
	})
	require.NoError(t, err)

	require.NoError(t, client.Authenticate(context.Background()))
	assert.Equal(t, "the-master-key", client.token)
}

func TestAuthenticate_Login(t *testing.T) {
	srv := nmtest.NewServer()
	defer srv.Close()

	client, err := NewClient(Config{
		BaseURL:       srv.URL(),
		Username:      nmtest.Username,
		Password:      nmtest.Password,
		ValidateCerts: true,
	})
	require.NoError(t, err)

	require.NoError(t, client.Authenticate(context.Background()))
	assert.NotEmpty(t, client.token)

	// The short-lived token must be usable for API operations
	srv.SeedNetwork(types.Network{NetID: "iot-network"})
	network, err := client.GetNetwork(context.Background(), "iot-network")
	require.NoError(t, err)
	assert.Equal(t, "iot-network", network.NetID)
}

func TestAuthenticate_RejectedCredentials(t *testing.T) {
	srv := nmtest.NewServer()
	defer srv.Close()

	client, err := NewClient(Config{
		BaseURL:       srv.URL(),
		Username:      nmtest.Username,
		Password:      "wrong-password",
		ValidateCerts: true,
	})
	require.NoError(t, err)

	err = client.Authenticate(context.Background())
	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestAuthenticate_MasterKeyWinsOverLogin(t *testing.T) {
	srv := nmtest.NewServer()
	defer srv.Close()

	// Both credential forms supplied: the master key takes precedence
	// and the wrong password never reaches the server
	client, err := NewClient(Config{
		BaseURL:       srv.URL(),
		MasterKey:     nmtest.MasterKey,
		Username:      nmtest.Username,
		Password:      "wrong-password",
		ValidateCerts: true,
	})
	require.NoError(t, err)

	require.NoError(t, client.Authenticate(context.Background()))
	assert.Equal(t, nmtest.MasterKey, client.token)
}

func TestAuthenticate_ConnectivityFailure(t *testing.T) {
	srv := nmtest.NewServer()
	url := srv.URL()
	srv.Close()

	client, err := NewClient(Config{
		BaseURL:       url,
		Username:      nmtest.Username,
		Password:      nmtest.Password,
		ValidateCerts: true,
	})
	require.NoError(t, err)

	// Transport failure during login surfaces as connectivity, not auth
	err = client.Authenticate(context.Background())
	var connErr *ConnectivityError
	assert.ErrorAs(t, err, &connErr)
}
