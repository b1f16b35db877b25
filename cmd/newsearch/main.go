// Command newsearch ищет новости через сервис /news и печатает страницу
// с карточками результатов.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"crypto_news/internal/logger"
	"crypto_news/internal/page"
	"crypto_news/internal/search"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "newsearch [query...]",
	Short: "Search crypto news and render result cards as HTML",
	Long: `newsearch sends the query to a running news service (GET /news?crypto_query=...)
and renders one card per article into the search page. The page is printed to stdout;
with --fragment only the results container is printed.`,
	Args: cobra.ArbitraryArgs,
	RunE: run,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.Flags()
	flags.String("server", "http://127.0.0.1:8000", "base URL of the news service")
	flags.String("page", "", "HTML page with #cryptoSearch and #newsResults (default: built-in page)")
	flags.Bool("fragment", false, "print only the results container")
	flags.Duration("timeout", 0, "request timeout, 0 means no timeout")
	flags.Bool("debug", false, "enable debug logging")

	for _, name := range []string{"server", "page", "fragment", "timeout", "debug"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

func initConfig() {
	viper.SetEnvPrefix("NEWSEARCH")
	viper.AutomaticEnv()
}

func run(cmd *cobra.Command, args []string) error {
	level := "warn"
	if viper.GetBool("debug") {
		level = "debug"
	}
	logger.Init(level)
	logger.SetOutput(cmd.ErrOrStderr())

	p, err := loadPage(viper.GetString("page"))
	if err != nil {
		return err
	}
	in, err := p.Input(page.SearchInputID)
	if err != nil {
		return err
	}
	out, err := p.Container(page.ResultsID)
	if err != nil {
		return err
	}
	in.SetValue(strings.Join(args, " "))

	s := search.New(viper.GetString("server"), in, out, search.Options{
		Client:  &http.Client{},
		Timeout: viper.GetDuration("timeout"),
	})
	s.Run(cmd.Context())

	return render(cmd.OutOrStdout(), p, viper.GetBool("fragment"))
}

func loadPage(path string) (*page.Page, error) {
	if path == "" {
		return page.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return page.Parse(f)
}

func render(w io.Writer, p *page.Page, fragment bool) error {
	if fragment {
		if err := p.RenderInner(page.ResultsID, w); err != nil {
			return err
		}
	} else if err := p.Render(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
