// Package gen compiles an entity-relationship diagram into a DDL script.
//
// # Pipeline
//
// Compilation runs in fixed phases, each appending statements to one script:
//
//	Classify (partition nodes by kind)
//	        ↓
//	tables → primary keys → partial keys → associative entities
//	        ↓
//	generalization → relationships → multivalued → derived
//	        ↓
//	Result (script, phase reports, warnings)
//
// Every phase reads keys through a Resolver, which walks the diagram and
// returns ResolvedKey values; nothing is shared between phases but the
// script being built.
//
// # Key Types
//
//   - Classes: the nodes of a diagram grouped by kind
//   - Resolver: owner, partial, inherited and superclass key lookups
//   - ResolvedKey: a key column and the table holding it
//   - Allocator: sequential RAISE_APPLICATION_ERROR codes
//   - Result: the compiled script with one PhaseReport per phase
//
// # Error Handling
//
// Unknown node kinds and dangling connections stop the compilation and are
// returned wrapped in *erddl.PhaseError. Constructs that cannot be translated,
// such as an entity without a key or a ternary relationship, are skipped and
// reported as warnings:
//
//	res, err := gen.Compile(ctx, d)
//	if err != nil {
//	    return err
//	}
//	for _, w := range res.Warnings {
//	    if erddl.IsMissingKey(w) {
//	        // the construct was left out of the script
//	    }
//	}
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	res, err := gen.Compile(ctx, d,
//	    gen.WithLogger(logger),
//	    gen.WithErrorBase(20100),
//	    gen.WithDialect("postgres"),
//	)
//
// # Output
//
// Result.WriteFile replaces its target atomically. Result.Render targets the
// configured dialect; dialects other than Oracle are planned with atlas and
// carry tables and keys only. GoBindings renders table and column constants
// with jennifer.
package gen
