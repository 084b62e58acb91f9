package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/SscSPs/ledger_integrity/internal/adapters/keys"
	"github.com/spf13/cobra"
)

var (
	keyBits          int
	keyOut           string
	keyPassphraseEnv string
	keyIn            string
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage the document signing key",
}

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Create a new RSA signing key as PKCS#8 PEM",
	Long: `Creates a new RSA key. When the environment variable named by --passphrase-env
is set, the key is encrypted with its value. The file is never overwritten.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if keyOut == "" {
			return errors.New("--out is required")
		}
		passphrase := ""
		if keyPassphraseEnv != "" {
			passphrase = os.Getenv(keyPassphraseEnv)
		}

		pemBytes, err := keys.GenerateKeyPEM(keyBits, passphrase)
		if err != nil {
			return err
		}

		f, err := os.OpenFile(keyOut, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err != nil {
			return fmt.Errorf("failed to create key file: %w", err)
		}
		if _, err := f.Write(pemBytes); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write key file: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}

		signer, err := keys.ParseSigner(pemBytes, passphrase)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bits, encrypted=%t)\nfingerprint %s\n", keyOut, keyBits, passphrase != "", signer.Fingerprint())
		return nil
	},
}

var keysPublicCmd = &cobra.Command{
	Use:   "public",
	Short: "Print the public half and fingerprint of a signing key",
	RunE: func(cmd *cobra.Command, args []string) error {
		passphrase := ""
		if keyPassphraseEnv != "" {
			passphrase = os.Getenv(keyPassphraseEnv)
		}
		signer, err := keys.LoadSignerFromFile(keyIn, passphrase)
		if err != nil {
			return err
		}
		pub, err := signer.PublicKeyPEM()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n", signer.Fingerprint())
		_, err = out.Write(pub)
		return err
	},
}

func init() {
	keysGenerateCmd.Flags().IntVar(&keyBits, "bits", 3072, "RSA modulus size")
	keysGenerateCmd.Flags().StringVar(&keyOut, "out", "", "path of the new PEM file")
	keysGenerateCmd.Flags().StringVar(&keyPassphraseEnv, "passphrase-env", "SIGNING_KEY_PASSPHRASE", "environment variable holding the key passphrase")
	keysPublicCmd.Flags().StringVar(&keyIn, "in", "", "path of the PEM key")
	keysPublicCmd.Flags().StringVar(&keyPassphraseEnv, "passphrase-env", "SIGNING_KEY_PASSPHRASE", "environment variable holding the key passphrase")
	_ = keysPublicCmd.MarkFlagRequired("in")
	keysCmd.AddCommand(keysGenerateCmd, keysPublicCmd)
	rootCmd.AddCommand(keysCmd)
}
