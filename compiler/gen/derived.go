package gen

import (
	"strings"

	"github.com/syssam/erddl/graph"
)

// derived creates a view per derived attribute over the query it carries.
// The query is not checked.
func (c *compiler) derived() {
	for _, d := range c.classes.Derived {
		owner, ok := c.owner(d)
		if !ok {
			c.emit.unsupported(d, "no owning entity")
			continue
		}
		if strings.TrimSpace(d.SQL) == "" {
			c.emit.unsupported(d, "empty query")
			continue
		}
		c.emit.view(graph.TableName(owner.Label), graph.TableName(d.Label), d.SQL)
	}
}
