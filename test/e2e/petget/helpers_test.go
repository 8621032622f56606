package petget_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/petget/pkg/authsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Container setup and shared helpers for the petget end-to-end tests.
 */

const (
	testImageName = "petget-test:latest"

	bootstrapToken = "test-bootstrap-token-12345"
	adminPassword  = "Admin123!pass"
)

// imageReady is false when docker could not build the image; every test
// then skips instead of failing.
var imageReady bool

// TestMain builds the Docker image once before all tests and removes it
// afterwards.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building petget Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stdout, " skipped (%v)\n", err)
	} else {
		imageReady = true
		fmt.Fprintf(os.Stdout, " done\n")
	}

	exitCode := m.Run()

	if imageReady {
		fmt.Fprintf(os.Stdout, "Cleaning up petget Docker image...")
		cleanupDockerImage()
		fmt.Fprintf(os.Stdout, " done\n")
	}

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/petget/Dockerfile",
		"../../../")
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run()
}

func cleanupDockerImage() {
	cmd := exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might already be gone
}

// relaxedLimits lifts the strict and moderate rate limits so tests can make
// many rapid requests.
var relaxedLimits = map[string]string{
	"RATELIMIT_STRICT_REQUESTS":   "1000",
	"RATELIMIT_STRICT_WINDOW_SEC": "60",
	"RATELIMIT_STRICT_BURST":      "1000",
	"RATELIMIT_MODERATE_REQUESTS": "1000",
	"RATELIMIT_MODERATE_BURST":    "1000",
}

// setupContainer starts petget and returns its base URL. extraEnv is merged
// over the defaults.
func setupContainer(t *testing.T, extraEnv map[string]string) string {
	t.Helper()
	if !imageReady {
		t.Skip("docker image not available")
	}
	ctx := context.Background()

	env := map[string]string{
		"BOOTSTRAP_TOKEN":         bootstrapToken,
		"JWT_SECRET":              "e2e-secret-0123456789abcdef0123456789",
		"ENV":                     "test",
		"LOG_LEVEL":               "info",
		"LOG_FORMAT":              "json",
		"PETGET_TRACING_EXPORTER": "none",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// provisionClinic creates a tenant and returns a logged in session for its
// administrator.
func provisionClinic(t *testing.T, client *authsdk.SDKClient, tenantID string) *authsdk.Session {
	t.Helper()

	identity := "admin@" + tenantID + ".example"
	resp, err := client.ProvisionTenant(t.Context(), bootstrapToken, authsdk.ProvisionTenantRequest{
		TenantID:      tenantID,
		CompanyName:   "Clinic " + tenantID,
		AdminName:     "Administrator",
		AdminIdentity: identity,
		AdminPassword: adminPassword,
	})
	require.NoError(t, err)
	require.Equal(t, tenantID, resp.TenantID)
	require.Empty(t, resp.GeneratedPassword)

	session, err := client.AuthenticateWithPassword(t.Context(), identity, adminPassword)
	require.NoError(t, err)
	require.Equal(t, tenantID, session.TenantID())
	return session
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *authsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
