package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rosrs-go/httpsession"
	"github.com/geoknoesis/rosrs-go/rdf"
	"github.com/geoknoesis/rosrs-go/ro"
)

// withRO opens the RO named by ref on a fresh session and closes the
// session when fn returns.
func (a *app) withRO(ref string, fn func(*ro.RemoteMetadata) error) error {
	s, err := a.session()
	if err != nil {
		return err
	}
	defer s.Close()
	r, err := a.open(s, ref)
	if err != nil {
		return err
	}
	return fn(r)
}

func (a *app) newManifestCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "manifest <ro>",
		Short: "Print the RO manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := rdf.ParseFormat(format)
			if !ok {
				return fmt.Errorf("unknown format %q", format)
			}
			ctx := cmd.Context()
			return a.withRO(args[0], func(r *ro.RemoteMetadata) error {
				g, err := r.LoadManifest(ctx)
				if err != nil {
					return err
				}
				return writeGraph(a.out, g, f)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "turtle", "output format: turtle, ntriples or rdfxml")
	return cmd
}

func writeGraph(w io.Writer, g *rdf.Graph, format rdf.Format) error {
	switch format {
	case rdf.FormatTurtle, rdf.FormatN3:
		return rdf.WriteTurtle(w, g, ro.PrefixMap())
	case rdf.FormatNTriples:
		return rdf.WriteNTriples(w, g)
	case rdf.FormatRDFXML:
		return rdf.WriteRDFXML(w, g, ro.PrefixMap())
	}
	return fmt.Errorf("cannot write %s", format)
}

func (a *app) newAnnotationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "annotations <ro> [subject]",
		Short: "Print annotations of the RO, or of one of its components",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withRO(args[0], func(r *ro.RemoteMetadata) error {
				var subject rdf.Term
				if len(args) == 2 {
					subject = rdf.IRI{Value: r.ComponentURI(args[1])}
				}
				triples, err := r.Annotations(ctx, subject, nil)
				if err != nil {
					return err
				}
				g := rdf.NewGraph()
				for t := range triples {
					g.Add(t)
				}
				if err := rdf.WriteTurtle(a.out, g, ro.PrefixMap()); err != nil {
					return err
				}
				for _, f := range r.AnnotationFailures() {
					fmt.Fprintf(cmd.ErrOrStderr(), "skipped annotation body %s\n", f)
				}
				return nil
			})
		},
	}
}

func (a *app) newQueryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "query <ro> <sparql>",
		Short: "Run an ASK or SELECT query over the RO annotations",
		Long: `Run an ASK or SELECT query over the RO annotations.

The common RO prefixes (ro, ore, ao, dcterms, ...) are declared for you.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withRO(args[0], func(r *ro.RemoteMetadata) error {
				res, err := r.QueryAnnotations(ctx, ro.SPARQLPrefixes()+args[1], nil)
				if err != nil {
					return err
				}
				printResult(a.out, res)
				return nil
			})
		},
	}
}

func printResult(w io.Writer, res *rdf.QueryResult) {
	if res.Form == rdf.QueryAsk {
		fmt.Fprintln(w, res.Boolean)
		return
	}
	fmt.Fprintln(w, "?"+strings.Join(res.Variables, "\t?"))
	for _, sol := range res.Solutions {
		row := make([]string, len(res.Variables))
		for i, name := range res.Variables {
			if term, ok := sol[name]; ok {
				row[i] = term.String()
			}
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
}

func (a *app) newAddCommand() *cobra.Command {
	var contentType string
	cmd := &cobra.Command{
		Use:   "add <ro> <path> <file>",
		Short: "Aggregate a file as an internal resource at path",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(args[2])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return a.withRO(args[0], func(r *ro.RemoteMetadata) error {
				proxy, resource, err := r.AggregateInternal(ctx, args[1], contentType, body)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "proxy\t%s\nresource\t%s\n", proxy, resource)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&contentType, "type", "", "content type of the file (default application/octet-stream)")
	return cmd
}

func (a *app) newUpdateCommand() *cobra.Command {
	var contentType string
	cmd := &cobra.Command{
		Use:   "update <ro> <resource> <file>",
		Short: "Replace the content of an internal resource",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(args[2])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return a.withRO(args[0], func(r *ro.RemoteMetadata) error {
				resp, err := r.UpdateInternal(ctx, r.ComponentURI(args[1]), contentType, body)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s\t%s\n", resp, resp.URI)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&contentType, "type", "", "content type of the file (default application/octet-stream)")
	return cmd
}

func (a *app) newAddExternalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-external <ro> <uri>",
		Short: "Aggregate an external resource by reference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withRO(args[0], func(r *ro.RemoteMetadata) error {
				if !r.IsExternal(args[1]) {
					return fmt.Errorf("%s is not an http or https URI", args[1])
				}
				proxy, resource, err := r.AggregateExternal(ctx, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "proxy\t%s\nresource\t%s\n", proxy, resource)
				return nil
			})
		},
	}
}

func (a *app) newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <ro> <resource>",
		Short: "Deaggregate a resource",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withRO(args[0], func(r *ro.RemoteMetadata) error {
				resp, err := r.Deaggregate(ctx, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, resp)
				return nil
			})
		},
	}
}

func (a *app) newLinksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "links <uri>",
		Short: "Print the link relations of a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session()
			if err != nil {
				return err
			}
			defer s.Close()
			resp, err := s.DoFollowRedirects(cmd.Context(), &httpsession.Request{
				URI:              args[0],
				Method:           http.MethodHead,
				AllowForeignHost: true,
			})
			if err != nil {
				return err
			}
			if !resp.IsSuccess() {
				return fmt.Errorf("HEAD %s: %s", resp.URI, resp)
			}
			links := resp.Links()
			rels := make([]string, 0, len(links))
			for rel := range links {
				rels = append(rels, rel)
			}
			slices.Sort(rels)
			for _, rel := range rels {
				fmt.Fprintf(a.out, "%s\t%s\n", rel, links[rel])
			}
			return nil
		},
	}
}
