package mcp

var HandlePaginate = (*Server).handlePaginate
