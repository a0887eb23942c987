package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oriolrius/nmctl/pkg/netmaker"
	"github.com/oriolrius/nmctl/pkg/reconciler"
	"github.com/oriolrius/nmctl/pkg/types"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a declared resource manifest",
	Long: `Apply a Netmaker resource from a YAML manifest.

Examples:
  # Create or update a network
  nmctl apply -f network.yaml --server https://api.netmaker.example.com

  # Preview without mutating remote state
  nmctl apply -f device.yaml --dry-run

Connection parameters fall back to NETMAKER_API_URL, NETMAKER_MASTER_KEY,
NETMAKER_USERNAME, NETMAKER_PASSWORD and NETMAKER_INSECURE when the
corresponding flags are not given.`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringP("file", "f", "", "YAML manifest to apply (required)")
	applyCmd.Flags().Bool("dry-run", false, "Compute the outcome without mutating remote state")
	applyCmd.Flags().String("server", "", "Netmaker API base URL")
	applyCmd.Flags().String("master-key", "", "Master key (preferred over username/password)")
	applyCmd.Flags().String("username", "", "Username for the login exchange")
	applyCmd.Flags().String("password", "", "Password for the login exchange")
	applyCmd.Flags().Bool("insecure", false, "Skip TLS certificate verification (insecure)")
	applyCmd.Flags().Duration("timeout", netmaker.DefaultTimeout, "Per-request timeout")
	_ = applyCmd.MarkFlagRequired("file")
}

// envSettings are the environment fallbacks for connection parameters
type envSettings struct {
	APIURL    string `envconfig:"API_URL"`
	MasterKey string `envconfig:"MASTER_KEY"`
	Username  string `envconfig:"USERNAME"`
	Password  string `envconfig:"PASSWORD"`
	Insecure  bool   `envconfig:"INSECURE"`
}

// resourceManifest is the YAML document shape accepted by apply
type resourceManifest struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
	Metadata   struct {
		Name string `yaml:"name"`
	} `yaml:"metadata"`
	State string    `yaml:"state"`
	Spec  yaml.Node `yaml:"spec"`
}

func runApply(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %v", err)
	}

	var manifest resourceManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("failed to parse manifest: %v", err)
	}

	declared, err := declaredFromManifest(&manifest)
	if err != nil {
		return err
	}

	cfg, err := connectionConfig(cmd)
	if err != nil {
		return err
	}

	client, err := netmaker.NewClient(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := client.Authenticate(ctx); err != nil {
		return err
	}

	outcome, err := reconciler.NewReconciler(client, dryRun).Reconcile(ctx, *declared)
	if err != nil {
		return err
	}

	rendered, err := yaml.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("failed to render outcome: %v", err)
	}
	fmt.Print(string(rendered))

	return nil
}

// declaredFromManifest maps the YAML document onto a DeclaredResource
func declaredFromManifest(manifest *resourceManifest) (*types.DeclaredResource, error) {
	declared := &types.DeclaredResource{
		Name:  manifest.Metadata.Name,
		State: types.State(manifest.State),
	}
	if manifest.State == "" {
		declared.State = types.StatePresent
	}

	switch manifest.Kind {
	case "Network":
		declared.Kind = types.KindNetwork
		if manifest.Spec.Kind != 0 {
			var spec types.NetworkSpec
			if err := manifest.Spec.Decode(&spec); err != nil {
				return nil, fmt.Errorf("failed to parse network spec: %v", err)
			}
			declared.Network = &spec
		}
	case "ExtClient":
		declared.Kind = types.KindExtClient
		var spec types.ExtClientSpec
		if manifest.Spec.Kind != 0 {
			if err := manifest.Spec.Decode(&spec); err != nil {
				return nil, fmt.Errorf("failed to parse extclient spec: %v", err)
			}
		}
		declared.ExtClient = &spec
	default:
		return nil, fmt.Errorf("unsupported resource kind: %s", manifest.Kind)
	}

	return declared, nil
}

// connectionConfig merges flags over environment fallbacks
func connectionConfig(cmd *cobra.Command) (netmaker.Config, error) {
	var env envSettings
	if err := envconfig.Process("NETMAKER", &env); err != nil {
		return netmaker.Config{}, fmt.Errorf("failed to read environment: %v", err)
	}

	server, _ := cmd.Flags().GetString("server")
	masterKey, _ := cmd.Flags().GetString("master-key")
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	insecure, _ := cmd.Flags().GetBool("insecure")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	if server == "" {
		server = env.APIURL
	}
	if masterKey == "" {
		masterKey = env.MasterKey
	}
	if username == "" {
		username = env.Username
	}
	if password == "" {
		password = env.Password
	}
	if !insecure {
		insecure = env.Insecure
	}

	return netmaker.Config{
		BaseURL:       server,
		MasterKey:     masterKey,
		Username:      username,
		Password:      password,
		ValidateCerts: !insecure,
		Timeout:       timeout,
	}, nil
}
