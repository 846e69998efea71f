package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/fetchr/filter"
	"github.com/s0up4200/fetchr/people"
)

var (
	listPage     int
	listSize     int
	peopleFilter string
	exportFormat string
	peopleJSON   bool
)

// peopleCmd groups the people endpoint commands
var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "Query the people endpoint",
}

var peopleGetCmd = &cobra.Command{
	Use:   "get <id...>",
	Short: "Get one or more people by id",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPeopleGet,
}

var peopleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of people",
	RunE:  runPeopleList,
}

var peopleAllCmd = &cobra.Command{
	Use:   "all",
	Short: "List every person, walking all pages",
	Long: `List every person by requesting pages until the service reports the last one.

An optional filter expression narrows the result. Fields: id, name, height,
mass, hair_color, skin_color, eye_color, birth_year, gender, homeworld,
films (count), created, edited. Helpers: lower, upper, contains, startsWith,
number, daysSince.`,
	Example: `  fetchr people all --filter 'height > 180'
  fetchr people all --filter 'contains(name, "skywalker") and films >= 3'`,
	RunE: runPeopleAll,
}

var peopleExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export people to the download directory",
	RunE:  runPeopleExport,
}

func init() {
	rootCmd.AddCommand(peopleCmd)
	peopleCmd.AddCommand(peopleGetCmd, peopleListCmd, peopleAllCmd, peopleExportCmd)

	peopleCmd.PersistentFlags().BoolVar(&peopleJSON, "json", false, "print results as JSON")

	peopleListCmd.Flags().IntVar(&listPage, "page", 0, "page number, starting at 0")
	peopleListCmd.Flags().IntVar(&listSize, "size", 0, "page size (default people.page_size)")

	peopleAllCmd.Flags().StringVarP(&peopleFilter, "filter", "f", "", "filter expression")

	peopleExportCmd.Flags().StringVar(&exportFormat, "format", "csv", "export format")
}

func runPeopleGet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if len(args) == 1 {
		person, err := peopleClient.GetPerson(ctx, args[0])
		if err != nil {
			return err
		}
		return printPeople(cmd.OutOrStdout(), []people.Person{*person})
	}

	found, err := peopleClient.GetPeopleByIDs(ctx, args)
	if err != nil {
		return err
	}
	return printPeople(cmd.OutOrStdout(), found)
}

func runPeopleList(cmd *cobra.Command, args []string) error {
	size := listSize
	if size <= 0 {
		size = peopleClient.PageSize()
	}

	page, err := peopleClient.ListPeople(context.Background(), listPage, size)
	if err != nil {
		return err
	}

	if peopleJSON {
		return printJSON(cmd.OutOrStdout(), page)
	}

	if err := printPeople(cmd.OutOrStdout(), page.Content); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nPage %d of %d (%d people total)\n", page.Number+1, page.TotalPages, page.TotalElements)
	return nil
}

func runPeopleAll(cmd *cobra.Command, args []string) error {
	var f *filter.Filter
	if peopleFilter != "" {
		var err error
		f, err = filter.Compile(peopleFilter)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		logger.Info().Str("filter", f.Expression()).Msg("Filtering people")
	}

	everyone, err := peopleClient.AllPeople(context.Background())
	if err != nil {
		return err
	}

	if f != nil {
		everyone, err = filter.Select(f, everyone)
		if err != nil {
			return err
		}
	}

	return printPeople(cmd.OutOrStdout(), everyone)
}

func runPeopleExport(cmd *cobra.Command, args []string) error {
	if err := peopleClient.ExportPeople(context.Background(), exportFormat); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Export saved to %s\n", sink.Dir())
	return nil
}

func printPeople(w io.Writer, list []people.Person) error {
	if peopleJSON {
		return printJSON(w, list)
	}

	if len(list) == 0 {
		fmt.Fprintln(w, "No people found.")
		return nil
	}

	fmt.Fprintf(w, "\nFound %d people:\n", len(list))
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, p := range list {
		fmt.Fprintf(w, "• %s", p.Name)
		if p.ID != "" {
			fmt.Fprintf(w, " (ID: %s)", p.ID)
		}
		fmt.Fprintln(w)
		if p.BirthYear != "" {
			fmt.Fprintf(w, "  Born: %s\n", p.BirthYear)
		}
		if h := p.HeightCM(); h > 0 {
			fmt.Fprintf(w, "  Height: %.0f cm\n", h)
		}
		if m := p.MassKG(); m > 0 {
			fmt.Fprintf(w, "  Mass: %.0f kg\n", m)
		}
		if len(p.Films) > 0 {
			fmt.Fprintf(w, "  Films: %d\n", len(p.Films))
		}
	}

	return nil
}
