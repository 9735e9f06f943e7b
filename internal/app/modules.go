package app

import (
	"github.com/vk/vesselgo/codecs/jsonmsg"
	"github.com/vk/vesselgo/codecs/msgpackmsg"
	"github.com/vk/vesselgo/verticles/healthcheck"
	"github.com/vk/vesselgo/verticles/logsink"
	"github.com/vk/vesselgo/verticles/siobridge"
)

// coreModules is the definitive list of all modules that are compiled into
// the vesselgo binary.
var coreModules = []Module{
	&jsonmsg.Module{},
	&msgpackmsg.Module{},
	&healthcheck.Module{},
	&logsink.Module{},
	&siobridge.Module{},
}
