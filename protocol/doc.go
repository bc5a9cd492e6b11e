/*
Package protocol provides structures which represent operations and returns
from the Model Configuration Framework branch service.

Basics

The Branch structure represents a branch of a project's model, and is the
structure returned from most operations.  Objects to initiate changes are
suffixed with *Request; POSTing or PATCHing correctly formatted objects to
the correct route will cause the described action to be performed, e.g.
CreateBranchRequest or UpdateBranchRequest.

*/
package protocol
