/*
Package serialize writes and reads journal artifacts.

An artifact is one JSON document embedding everything a later process
needs to run the compensating action: the registered kind and the
content captured when the destructive step succeeded. Loading resolves
the kind against the registry; the document itself never carries code.
*/
package serialize
