package amqp

var NewNotifierWithBuffer = newNotifier
