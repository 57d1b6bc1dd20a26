package memdb

const Version = "0.1.0"
